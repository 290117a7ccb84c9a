// Package module wires recommendations into the API using modkit
package module

import (
	"net/http"

	modkit "chayfood/internal/modkit"
	"chayfood/internal/modkit/httpkit"
	str "chayfood/internal/platform/strings"
	recshttp "chayfood/internal/services/api/recs/http"
	recsrepo "chayfood/internal/services/api/recs/repo"
	recssvc "chayfood/internal/services/api/recs/service"
)

// Module implements the recommendations module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc recssvc.Service
}

// New constructs the recommendations module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("recs"), modkit.WithPrefix("/recs")}, opts...)...)

	repo := recsrepo.NewPG()
	svc := recssvc.New(deps.PG, repo)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptRecsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		recshttp.Register(r, m.svc)
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
