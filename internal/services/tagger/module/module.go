// Package module wires up the tagger service as a modkit.Module
package module

import (
	"chayfood/internal/modkit"
	"chayfood/internal/modkit/httpkit"
	modreg "chayfood/internal/modkit/module"

	tgdom "chayfood/internal/services/tagger/domain"
	"chayfood/internal/services/tagger/guardrails"
	tgrepo "chayfood/internal/services/tagger/repo"
	tgservice "chayfood/internal/services/tagger/service"
)

// Ports exported by the tagger module
type Ports struct {
	Runner tgdom.RunnerPort
}

// Module implements modkit.Module for the tagger
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the tagger module using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := tgrepo.NewPG()

	leaseFn := guardrails.MakeRunLease(deps, "tagger", opts.LeaseTTL)

	svc := tgservice.New(
		deps.PG,
		binder,
		tgservice.Config{
			Lookback:       opts.Lookback,
			MaxSuggestions: opts.MaxSuggestions,
			EnableLeases:   opts.EnableLeases,
		},
		leaseFn,
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "tagger" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op: the tagger has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Register convenience: allow others to resolve our ports via registry
func Register(deps modkit.Deps) {
	modreg.Register("tagger", New(deps))
}
