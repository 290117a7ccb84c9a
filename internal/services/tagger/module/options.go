package module

import (
	"time"

	"chayfood/internal/platform/config"
)

// Options for the tagger module
type Options struct {
	Lookback       time.Duration
	MaxSuggestions int
	EnableLeases   bool
	LeaseTTL       time.Duration
	Interval       time.Duration
}

// FromConfig fills options from environment
// CORE_TAGGER_LOOKBACK (default 0, full history) bounds the order history scanned per run
// CORE_TAGGER_MAX_SUGGESTIONS (default 5) caps pairings persisted per item
// CORE_TAGGER_LEASES (default true) enables the advisory lock around runs
// CORE_TAGGER_LEASE_TTL (default 10m) is the lease reclaim horizon
// CORE_TAGGER_INTERVAL (default 24h) is the scheduler period for the worker binary
func FromConfig(cfg config.Conf) Options {
	t := cfg.Prefix("CORE_TAGGER_")
	return Options{
		Lookback:       t.MayDuration("LOOKBACK", 0),
		MaxSuggestions: t.MayInt("MAX_SUGGESTIONS", 5),
		EnableLeases:   t.MayBool("LEASES", true),
		LeaseTTL:       t.MayDuration("LEASE_TTL", 10*time.Minute),
		Interval:       t.MayDuration("INTERVAL", 24*time.Hour),
	}
}
