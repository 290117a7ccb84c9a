package guardrails

import (
	"context"
	stderrs "errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"chayfood/internal/modkit"
	"chayfood/internal/modkit/repokit"
	perr "chayfood/internal/platform/errors"
)

type fakeRow struct {
	err error
	ok  bool
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if b, isBool := dest[0].(*bool); isBool {
		*b = r.ok
	}
	return nil
}

// fakeDB answers the claim query with a canned row and counts releases
type fakeDB struct {
	scanErr error
	claimed bool
	execs   int
}

func (f *fakeDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	f.execs++
	return nil, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	panic("unexpected Query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) repokit.Row {
	return fakeRow{err: f.scanErr, ok: f.claimed}
}

func (f *fakeDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(f)
}

func TestRunLease_ClaimRunsAndReleases(t *testing.T) {
	db := &fakeDB{claimed: true}
	lease := MakeRunLease(modkit.Deps{PG: db}, "tagger", time.Minute)

	ran := false
	err := lease(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("lease run: %v", err)
	}
	if !ran {
		t.Fatalf("run body never executed")
	}
	if db.execs != 1 {
		t.Fatalf("release executed %d times, want 1", db.execs)
	}
}

func TestRunLease_HeldWhenClaimReturnsNoRow(t *testing.T) {
	db := &fakeDB{scanErr: pgx.ErrNoRows}
	lease := MakeRunLease(modkit.Deps{PG: db}, "tagger", time.Minute)

	ran := false
	err := lease(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if !stderrs.Is(err, ErrLeaseHeld) {
		t.Fatalf("err = %v, want ErrLeaseHeld", err)
	}
	if ran {
		t.Fatalf("run body executed while the lease was held")
	}
	if db.execs != 0 {
		t.Fatalf("release fired for an unclaimed lease")
	}
}

func TestRunLease_SurfacesClaimFailures(t *testing.T) {
	db := &fakeDB{scanErr: stderrs.New("connection reset")}
	lease := MakeRunLease(modkit.Deps{PG: db}, "tagger", time.Minute)

	ran := false
	err := lease(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil || stderrs.Is(err, ErrLeaseHeld) {
		t.Fatalf("claim failure reported as %v, want a surfaced error", err)
	}
	var e *perr.Error
	if !stderrs.As(err, &e) || e.Code() != perr.ErrorCodeDB {
		t.Fatalf("claim failure code = %v, want DB", err)
	}
	if ran {
		t.Fatalf("run body executed despite a failed claim")
	}
}
