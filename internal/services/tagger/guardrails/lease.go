// Package guardrails provides the single-flight lease around tagger runs
package guardrails

import (
	"context"
	"fmt"
	"os"
	"time"

	"chayfood/internal/modkit"
	perr "chayfood/internal/platform/errors"
	"chayfood/internal/platform/store"
)

// ErrLeaseHeld signals another worker owns the current run already
var ErrLeaseHeld = fmt.Errorf("tagger: run lease already held")

// MakeRunLease claims the tagger row in job_leases (auto-reclaim via expires_at)
func MakeRunLease(
	deps modkit.Deps,
	owner string,
	ttl time.Duration,
) func(ctx context.Context, do func(context.Context) error) error {
	owner = fmt.Sprintf("%s:%d", owner, os.Getpid())

	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	toInterval := func(d time.Duration) string { return fmt.Sprintf("%d seconds", int64(d/time.Second)) }

	return func(ctx context.Context, do func(context.Context) error) error {
		var claimed bool
		if err := deps.PG.Tx(ctx, func(q store.RowQuerier) error {
			row := q.QueryRow(ctx, `
				INSERT INTO job_leases (job_name, owner, claimed_at, expires_at)
				VALUES ('tagger', $1, now(), now() + ($2)::interval)
				ON CONFLICT (job_name) DO UPDATE
				   SET owner = excluded.owner,
				       claimed_at = now(),
				       expires_at = excluded.expires_at
				 WHERE job_leases.expires_at <= now()
				RETURNING true
			`, owner, toInterval(ttl))
			var ok bool
			switch err := row.Scan(&ok); {
			case err == nil:
				claimed = ok
			case perr.IsNoRows(err):
				// the upsert matched nothing, the lease is live elsewhere
			default:
				return perr.FromDB(err, "claim run lease")
			}
			return nil
		}); err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}
		defer func() {
			// release even when the run context was canceled
			rctx := context.WithoutCancel(ctx)
			_ = deps.PG.Tx(rctx, func(q store.RowQuerier) error {
				_, err := q.Exec(rctx, `
					UPDATE job_leases
					   SET expires_at = now()
					 WHERE job_name = 'tagger' AND owner = $1
				`, owner)
				return err
			})
		}()
		return do(ctx)
	}
}
