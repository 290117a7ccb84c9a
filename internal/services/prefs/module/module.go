// Package module wires preference tracking into the API using modkit
package module

import (
	"net/http"

	modkit "chayfood/internal/modkit"
	"chayfood/internal/modkit/httpkit"
	str "chayfood/internal/platform/strings"
	prefshttp "chayfood/internal/services/prefs/http"
	prefsrepo "chayfood/internal/services/prefs/repo"
	prefssvc "chayfood/internal/services/prefs/service"
)

// Module implements the preference tracking module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc prefssvc.Service
}

// New constructs the preference module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("events"), modkit.WithPrefix("/events")}, opts...)...)

	repo := prefsrepo.NewPG()
	catalog := prefsrepo.NewCatalogPG()
	svc := prefssvc.New(deps.PG, repo, catalog)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPrefsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		prefshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
