package repo

import (
	"context"

	"chayfood/internal/modkit/repokit"
	perr "chayfood/internal/platform/errors"
	"chayfood/internal/services/prefs/domain"
)

type catalogQueries struct{ q repokit.Queryer }

// CatalogPG is a binder for the menu catalog lookup
type CatalogPG struct{}

// NewCatalogPG returns a binder for the catalog port
func NewCatalogPG() repokit.Binder[domain.CatalogPort] { return CatalogPG{} }

// Bind wires a Queryer to the catalog port
func (CatalogPG) Bind(q repokit.Queryer) domain.CatalogPort { return &catalogQueries{q: q} }

func (r *catalogQueries) ItemCategories(ctx context.Context, itemIDs []string) (map[string]string, error) {
	if len(itemIDs) == 0 {
		return map[string]string{}, nil
	}
	const sql = `
select id, category
from menu_items
where id = any($1)
`
	rows, err := r.q.Query(ctx, sql, itemIDs)
	if err != nil {
		return nil, perr.FromDB(err, "item categories")
	}
	defer rows.Close()

	out := make(map[string]string, len(itemIDs))
	for rows.Next() {
		var id, cat string
		if err := rows.Scan(&id, &cat); err != nil {
			return nil, perr.FromDB(err, "scan item category")
		}
		out[id] = cat
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate item categories")
	}
	return out, nil
}
