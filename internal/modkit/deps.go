package modkit

import (
	"chayfood/internal/modkit/repokit"
	"chayfood/internal/platform/config"
	"chayfood/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}
