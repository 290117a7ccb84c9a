package main

import (
	"context"
	"flag"
	"time"

	"chayfood/internal/modkit"
	"chayfood/internal/modkit/module"
	"chayfood/internal/platform/config"
	"chayfood/internal/platform/logger"
	"chayfood/internal/platform/store"

	tgmod "chayfood/internal/services/tagger/module"
)

func main() {
	var (
		fMode = flag.String("mode", "once", "tagger mode: once | worker")
	)
	flag.Parse()

	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "chayfood-tagger",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	tg := tgmod.New(deps)
	module.Register(tg.Name(), tg.Ports())

	ports := module.MustPortsOf[tgmod.Ports](tg)
	opts := tgmod.FromConfig(root)

	ctx := context.Background()

	switch *fMode {
	case "once":
		// a failed step aborts the run and the process reports it
		if err := ports.Runner.RunOnce(ctx); err != nil {
			l.Fatal().Err(err).Msg("tagger run failed")
		}

	case "worker":
		// run on a fixed interval until the process is stopped
		l.Info().Dur("interval", opts.Interval).Msg("tagger worker started")
		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()
		for {
			if err := ports.Runner.RunOnce(ctx); err != nil {
				l.Error().Err(err).Msg("tagger run failed")
			}
			<-ticker.C
		}

	default:
		l.Panic().Str("mode", *fMode).Msg("unknown tagger mode")
	}
}
