// Package repo provides postgres access for analytics
package repo

import (
	"context"
	"time"

	"chayfood/internal/modkit/repokit"
	perr "chayfood/internal/platform/errors"
	"chayfood/internal/services/api/analytics/domain"
)

// OrderAggRow aggregates order counters for one window
type OrderAggRow struct {
	Total     int64
	Completed int64
	Cancelled int64
	Revenue   float64
}

// DailyRow is one calendar day's order volume
type DailyRow struct {
	Day     time.Time
	Orders  int64
	Revenue float64
}

// OrderStateRow is one order's resolved delivery state and amount
type OrderStateRow struct {
	State   string
	Revenue float64
}

// CustomerStateRow is one saved address state for a customer
type CustomerStateRow struct {
	ID    string
	State string
}

// Repo is the minimal persistence surface for analytics.
// Empty custIDs/itemIDs slices mean no filter
type Repo interface {
	OrderAgg(ctx context.Context, start, end time.Time, custIDs, itemIDs []string) (OrderAggRow, error)
	ActiveCustomers(ctx context.Context, start, end time.Time, custIDs, itemIDs []string) (int64, error)
	RepeatCustomers(ctx context.Context, start, end time.Time, custIDs, itemIDs []string) (int64, error)
	NewCustomers(ctx context.Context, start, end time.Time, custIDs []string) (int64, error)
	DishTotals(ctx context.Context, start, end time.Time, custIDs, itemIDs []string) ([]domain.DishRow, error)
	OrderDaily(ctx context.Context, start, end time.Time, custIDs, itemIDs []string) ([]DailyRow, error)
	OrderStates(ctx context.Context, start, end time.Time, custIDs, itemIDs []string) ([]OrderStateRow, error)

	// CustomerStates lists every customer with each saved address state,
	// one row per address; customers without addresses appear once with
	// an empty state. Region filters classify these rows in Go so they
	// bucket states exactly like the regional report does
	CustomerStates(ctx context.Context) ([]CustomerStateRow, error)

	// ItemIDsByCategory resolves a category filter to an item id set
	ItemIDsByCategory(ctx context.Context, category string) ([]string, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// orderFilter is the shared predicate tail for windowed order queries
const orderFilter = `
  o.created_at >= $1 and o.created_at < $2
  and (cardinality($3::text[]) = 0 or o.customer_id = any($3))
  and (cardinality($4::text[]) = 0 or exists (
        select 1 from order_items fi
        where fi.order_id = o.id and fi.item_id = any($4)))
`

func orEmptySet(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *queries) OrderAgg(
	ctx context.Context, start, end time.Time, custIDs, itemIDs []string,
) (OrderAggRow, error) {
	const sql = `
select
	count(*) filter (where o.status <> 'cancelled'),
	count(*) filter (where o.status in ('completed', 'delivered')),
	count(*) filter (where o.status = 'cancelled'),
	coalesce(sum(o.total_amount) filter (where o.status <> 'cancelled'), 0)
from orders o
where` + orderFilter
	var row OrderAggRow
	err := r.q.QueryRow(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs), orEmptySet(itemIDs)).
		Scan(&row.Total, &row.Completed, &row.Cancelled, &row.Revenue)
	if err != nil {
		return OrderAggRow{}, perr.FromDB(err, "order aggregates")
	}
	return row, nil
}

func (r *queries) ActiveCustomers(
	ctx context.Context, start, end time.Time, custIDs, itemIDs []string,
) (int64, error) {
	const sql = `
select count(distinct o.customer_id)
from orders o
where o.status <> 'cancelled' and` + orderFilter
	var n int64
	err := r.q.QueryRow(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs), orEmptySet(itemIDs)).Scan(&n)
	if err != nil {
		return 0, perr.FromDB(err, "active customers")
	}
	return n, nil
}

func (r *queries) RepeatCustomers(
	ctx context.Context, start, end time.Time, custIDs, itemIDs []string,
) (int64, error) {
	// active in-window with an account older than the window
	const sql = `
select count(distinct o.customer_id)
from orders o
join customers c on c.id = o.customer_id
where o.status <> 'cancelled'
  and c.created_at < $1
  and` + orderFilter
	var n int64
	err := r.q.QueryRow(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs), orEmptySet(itemIDs)).Scan(&n)
	if err != nil {
		return 0, perr.FromDB(err, "repeat customers")
	}
	return n, nil
}

func (r *queries) NewCustomers(
	ctx context.Context, start, end time.Time, custIDs []string,
) (int64, error) {
	const sql = `
select count(*)
from customers c
where c.created_at >= $1 and c.created_at < $2
  and (cardinality($3::text[]) = 0 or c.id = any($3))
`
	var n int64
	err := r.q.QueryRow(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs)).Scan(&n)
	if err != nil {
		return 0, perr.FromDB(err, "new customers")
	}
	return n, nil
}

func (r *queries) DishTotals(
	ctx context.Context, start, end time.Time, custIDs, itemIDs []string,
) ([]domain.DishRow, error) {
	const sql = `
select oi.item_id, coalesce(mi.name, oi.item_id),
       sum(oi.quantity)::bigint, coalesce(sum(oi.quantity * oi.unit_price), 0)
from orders o
join order_items oi on oi.order_id = o.id
left join menu_items mi on mi.id = oi.item_id
where o.status <> 'cancelled'
  and (cardinality($4::text[]) = 0 or oi.item_id = any($4))
  and o.created_at >= $1 and o.created_at < $2
  and (cardinality($3::text[]) = 0 or o.customer_id = any($3))
group by oi.item_id, mi.name
order by sum(oi.quantity) desc, oi.item_id asc
`
	rows, err := r.q.Query(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs), orEmptySet(itemIDs))
	if err != nil {
		return nil, perr.FromDB(err, "dish totals")
	}
	defer rows.Close()

	var out []domain.DishRow
	for rows.Next() {
		var d domain.DishRow
		if err := rows.Scan(&d.ID, &d.Name, &d.Count, &d.Revenue); err != nil {
			return nil, perr.FromDB(err, "scan dish total")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate dish totals")
	}
	return out, nil
}

func (r *queries) OrderDaily(
	ctx context.Context, start, end time.Time, custIDs, itemIDs []string,
) ([]DailyRow, error) {
	// truncate in UTC so rows land in the buckets the window math pre-fills
	// regardless of the session time zone
	const sql = `
select date_trunc('day', o.created_at at time zone 'UTC'), count(*), coalesce(sum(o.total_amount), 0)
from orders o
where o.status <> 'cancelled' and` + orderFilter + `
group by 1
order by 1
`
	rows, err := r.q.Query(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs), orEmptySet(itemIDs))
	if err != nil {
		return nil, perr.FromDB(err, "daily orders")
	}
	defer rows.Close()

	var out []DailyRow
	for rows.Next() {
		var d DailyRow
		if err := rows.Scan(&d.Day, &d.Orders, &d.Revenue); err != nil {
			return nil, perr.FromDB(err, "scan daily orders")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate daily orders")
	}
	return out, nil
}

func (r *queries) OrderStates(
	ctx context.Context, start, end time.Time, custIDs, itemIDs []string,
) ([]OrderStateRow, error) {
	// delivery state first, then the customer's default or first saved address
	const sql = `
select coalesce(
	nullif(o.delivery_state, ''),
	(select a.state
	   from customer_addresses a
	  where a.customer_id = o.customer_id
	  order by a.is_default desc, a.created_at asc
	  limit 1),
	''), o.total_amount
from orders o
where o.status <> 'cancelled' and` + orderFilter
	rows, err := r.q.Query(ctx, sql, start.UTC(), end.UTC(), orEmptySet(custIDs), orEmptySet(itemIDs))
	if err != nil {
		return nil, perr.FromDB(err, "order states")
	}
	defer rows.Close()

	var out []OrderStateRow
	for rows.Next() {
		var row OrderStateRow
		if err := rows.Scan(&row.State, &row.Revenue); err != nil {
			return nil, perr.FromDB(err, "scan order state")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate order states")
	}
	return out, nil
}

func (r *queries) CustomerStates(ctx context.Context) ([]CustomerStateRow, error) {
	const sql = `
select c.id, coalesce(a.state, '')
from customers c
left join customer_addresses a on a.customer_id = c.id
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromDB(err, "customer states")
	}
	defer rows.Close()

	var out []CustomerStateRow
	for rows.Next() {
		var row CustomerStateRow
		if err := rows.Scan(&row.ID, &row.State); err != nil {
			return nil, perr.FromDB(err, "scan customer state")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate customer states")
	}
	return out, nil
}

func (r *queries) ItemIDsByCategory(ctx context.Context, category string) ([]string, error) {
	rows, err := r.q.Query(ctx, `select id from menu_items where category = $1`, category)
	if err != nil {
		return nil, perr.FromDB(err, "items by category")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, perr.FromDB(err, "scan item id")
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate item ids")
	}
	return out, nil
}
