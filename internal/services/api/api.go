// Package api provides the HTTP API for the application
package api

import (
	"chayfood/internal/platform/config"
	"chayfood/internal/platform/logger"
	phttp "chayfood/internal/platform/net/http"
	"chayfood/internal/platform/store"

	"chayfood/internal/modkit"
	"chayfood/internal/modkit/httpkit"
	"chayfood/internal/modkit/module"

	analyticsmod "chayfood/internal/services/api/analytics/module"
	metamod "chayfood/internal/services/api/meta/module"
	recsmod "chayfood/internal/services/api/recs/module"
	prefsmod "chayfood/internal/services/prefs/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	mods := []module.Module{
		metamod.New(deps),
		prefsmod.New(deps),
		recsmod.New(deps),
		analyticsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
