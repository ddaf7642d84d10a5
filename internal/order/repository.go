package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	ListByStatus(ctx context.Context, statuses []Status) ([]*Order, error)

	// ApplyTransition moves the order from auth.From to auth.To and
	// stamps the transition timestamp, guarded on the current status so
	// the loser of a concurrent race gets ErrStatusConflict instead of
	// overwriting the winner.
	ApplyTransition(ctx context.Context, orderID uint, auth *Authorization, at time.Time) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, client_id, status, total_amount,
	client_full_name, phone_number, delivery_address, notes,
	order_date, accepted_at, ready_at, picked_up_at, completed_at, cancelled_at,
	delivery_note, failure_reason, cancel_reason
`

func (r *repository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			client_id, status, total_amount,
			client_full_name, phone_number, delivery_address, notes, order_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`,
		o.ClientID,
		o.Status,
		o.TotalAmount,
		o.ClientFullName,
		o.PhoneNumber,
		o.DeliveryAddress,
		o.Notes,
		o.OrderDate,
	).Scan(&o.ID)
	if err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, dish_id, dish_name, quantity, price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			o.ID,
			item.DishID,
			item.DishName,
			item.Quantity,
			item.Price,
			item.Subtotal(),
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.fetchItems(ctx, []uint{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

func (r *repository) ListByStatus(ctx context.Context, statuses []Status) ([]*Order, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = ANY($1)
		ORDER BY order_date DESC
	`, pq.Array(values))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	var ids []uint
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.fetchItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}

	return orders, nil
}

func (r *repository) ApplyTransition(ctx context.Context, orderID uint, auth *Authorization, at time.Time) error {
	col, err := stampColumn(auth.Stamp)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE orders
		SET status = $1,
		    %s = $2,
		    delivery_note = CASE WHEN $3 <> '' THEN $3 ELSE delivery_note END,
		    failure_reason = CASE WHEN $4 <> '' THEN $4 ELSE failure_reason END,
		    cancel_reason = CASE WHEN $5 <> '' THEN $5 ELSE cancel_reason END
		WHERE id = $6 AND status = $7 AND %s IS NULL
	`, col, col),
		auth.To,
		at,
		auth.DeliveryNote,
		auth.FailureReason,
		auth.CancelReason,
		orderID,
		auth.From,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// stampColumn whitelists the timestamp column; the stamp value comes
// from the engine, never from the wire.
func stampColumn(s Stamp) (string, error) {
	switch s {
	case StampAcceptedAt, StampReadyAt, StampPickedUpAt, StampCompletedAt, StampCancelledAt:
		return string(s), nil
	}
	return "", fmt.Errorf("unknown stamp %q", s)
}

func (r *repository) fetchItems(ctx context.Context, orderIDs []uint) (map[uint][]OrderItem, error) {
	ids := make([]int64, 0, len(orderIDs))
	for _, id := range orderIDs {
		ids = append(ids, int64(id))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, dish_id, dish_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uint][]OrderItem)
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.DishID, &it.DishName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}

	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var notes, deliveryNote, failureReason, cancelReason sql.NullString

	err := row.Scan(
		&o.ID, &o.ClientID, &o.Status, &o.TotalAmount,
		&o.ClientFullName, &o.PhoneNumber, &o.DeliveryAddress, &notes,
		&o.OrderDate, &o.AcceptedAt, &o.ReadyAt, &o.PickedUpAt, &o.CompletedAt, &o.CancelledAt,
		&deliveryNote, &failureReason, &cancelReason,
	)
	if err != nil {
		return nil, err
	}

	o.Notes = notes.String
	o.DeliveryNote = deliveryNote.String
	o.FailureReason = failureReason.String
	o.CancelReason = cancelReason.String

	return &o, nil
}
