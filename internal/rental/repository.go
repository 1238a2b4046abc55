package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDeviceNotFound = errors.New("device not found")
)

// Repository translates each logical query or mutation into parameterized SQL.
// Multi-statement mutations run inside a single transaction.
type Repository interface {
	Orders(ctx context.Context) ([]Order, error)
	OrderByID(ctx context.Context, id int64) (*Order, error)
	OrderContents(ctx context.Context, orderID int64) ([]ContentRow, error)
	UnfinishedOrders(ctx context.Context) ([]Order, error)
	UnpaidOrders(ctx context.Context) ([]Order, error)
	LatePaymentOrders(ctx context.Context) ([]Order, error)
	FinishedOrders(ctx context.Context) ([]Order, error)
	OrdersBefore(ctx context.Context, t time.Time) ([]Order, error)
	OrdersAfter(ctx context.Context, t time.Time) ([]Order, error)
	OrdersBetween(ctx context.Context, a, b time.Time) ([]Order, error)
	Devices(ctx context.Context) ([]Device, error)
	DeviceByID(ctx context.Context, id int64) (*Device, error)
	CreateOrder(ctx context.Context, o *Order, contents []ContentEntry) (int64, error)
	CreateDevice(ctx context.Context, d *Device) (int64, error)
	UpdateOrder(ctx context.Context, o *Order, contents []ContentEntry) error
	UpdateDevice(ctx context.Context, d *Device) error
	DeleteOrder(ctx context.Context, id int64) error
	DeleteDevice(ctx context.Context, id int64) error
}

const orderColumns = `id, total_price, order_start_date, order_end_date, payment_due_date, order_length_days, order_status, payment_resolved, customer_name, customer_phone_number, customer_email`

const deviceColumns = `id, name, description, price_per_day, current_stock, total_stock`

const contentsQuery = `SELECT devices.name, devices.description, devices.price_per_day, order_contents.count
		FROM order_contents
		INNER JOIN devices ON order_contents.device_id = devices.id
		WHERE order_contents.order_id = $1`

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// attachContents hydrates each order with its contents rows, one lookup per
// order. Cost grows linearly with the result set; the per-order result shape
// is part of the contract, batching is not.
func (r *postgresRepository) attachContents(ctx context.Context, orders []Order) error {
	for i := range orders {
		contents, err := r.OrderContents(ctx, orders[i].ID)
		if err != nil {
			return err
		}
		orders[i].Contents = contents
	}
	return nil
}

func (r *postgresRepository) selectOrders(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	orders := make([]Order, 0)
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("repository: failed to select orders: %w", err)
	}
	if err := r.attachContents(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepository) Orders(ctx context.Context) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders`)
}

func (r *postgresRepository) OrderByID(ctx context.Context, id int64) (*Order, error) {
	var order Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}

	contents, err := r.OrderContents(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Contents = contents

	return &order, nil
}

func (r *postgresRepository) OrderContents(ctx context.Context, orderID int64) ([]ContentRow, error) {
	contents := make([]ContentRow, 0)
	if err := r.db.SelectContext(ctx, &contents, contentsQuery, orderID); err != nil {
		return nil, fmt.Errorf("repository: failed to select contents for order %d: %w", orderID, err)
	}
	return contents, nil
}

func (r *postgresRepository) UnfinishedOrders(ctx context.Context) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_status <> $1`, StatusResolved)
}

func (r *postgresRepository) UnpaidOrders(ctx context.Context) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_resolved = false`)
}

// LatePaymentOrders evaluates the due-date cutoff in the store, not in Go.
func (r *postgresRepository) LatePaymentOrders(ctx context.Context) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_resolved = false AND payment_due_date < now()`)
}

func (r *postgresRepository) FinishedOrders(ctx context.Context) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_status = $1`, StatusResolved)
}

func (r *postgresRepository) OrdersBefore(ctx context.Context, t time.Time) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_start_date < $1`, t)
}

func (r *postgresRepository) OrdersAfter(ctx context.Context, t time.Time) ([]Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_end_date > $1`, t)
}

// OrdersBetween keeps the inherited boundary logic: an order qualifies only if
// its start or end date lies strictly inside (a, b). An order spanning the
// whole window matches neither leg and is excluded.
func (r *postgresRepository) OrdersBetween(ctx context.Context, a, b time.Time) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_start_date > $1 AND order_start_date < $2 OR order_end_date > $1 AND order_end_date < $2`
	return r.selectOrders(ctx, query, a, b)
}

func (r *postgresRepository) Devices(ctx context.Context) ([]Device, error) {
	devices := make([]Device, 0)
	if err := r.db.SelectContext(ctx, &devices, `SELECT `+deviceColumns+` FROM devices`); err != nil {
		return nil, fmt.Errorf("repository: failed to select devices: %w", err)
	}
	return devices, nil
}

func (r *postgresRepository) DeviceByID(ctx context.Context, id int64) (*Device, error) {
	var device Device
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`
	err := r.db.GetContext(ctx, &device, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("repository: failed to select device by id %d: %w", id, err)
	}
	return &device, nil
}

func (r *postgresRepository) CreateOrder(ctx context.Context, o *Order, contents []ContentEntry) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO orders (total_price, order_start_date, order_end_date, payment_due_date, order_length_days, customer_name, customer_phone_number, customer_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var id int64
	err = tx.QueryRowContext(ctx, query,
		o.TotalPrice,
		o.OrderStartDate,
		o.OrderEndDate,
		o.PaymentDueDate,
		o.OrderLengthDays,
		o.CustomerName,
		o.CustomerPhoneNumber,
		o.CustomerEmail,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	if err := insertContents(ctx, tx, id, contents); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("repository: failed to commit transaction: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) CreateDevice(ctx context.Context, d *Device) (int64, error) {
	query := `INSERT INTO devices (name, description, price_per_day, current_stock, total_stock)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int64
	// current_stock starts out equal to total_stock; the store never adjusts it afterwards.
	err := r.db.QueryRowContext(ctx, query, d.Name, d.Description, d.PricePerDay, d.TotalStock, d.TotalStock).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert device: %w", err)
	}
	return id, nil
}

// UpdateOrder writes every order column and, when contents is non-nil,
// replaces all association rows for the order inside the same transaction.
func (r *postgresRepository) UpdateOrder(ctx context.Context, o *Order, contents []ContentEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `UPDATE orders
		SET total_price = $1, order_start_date = $2, order_end_date = $3, payment_due_date = $4, order_length_days = $5, order_status = $6, payment_resolved = $7, customer_name = $8, customer_phone_number = $9, customer_email = $10
		WHERE id = $11`
	_, err = tx.ExecContext(ctx, query,
		o.TotalPrice,
		o.OrderStartDate,
		o.OrderEndDate,
		o.PaymentDueDate,
		o.OrderLengthDays,
		o.OrderStatus,
		o.PaymentResolved,
		o.CustomerName,
		o.CustomerPhoneNumber,
		o.CustomerEmail,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %d: %w", o.ID, err)
	}

	if contents != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_contents WHERE order_id = $1`, o.ID); err != nil {
			return fmt.Errorf("repository: failed to clear contents for order %d: %w", o.ID, err)
		}
		if err := insertContents(ctx, tx, o.ID, contents); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateDevice(ctx context.Context, d *Device) error {
	query := `UPDATE devices
		SET name = $1, description = $2, price_per_day = $3, current_stock = $4, total_stock = $5
		WHERE id = $6`
	_, err := r.db.ExecContext(ctx, query, d.Name, d.Description, d.PricePerDay, d.CurrentStock, d.TotalStock, d.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update device %d: %w", d.ID, err)
	}
	return nil
}

// DeleteOrder removes the association rows first, then the order itself.
// Deleting an id that does not exist affects zero rows and is not an error.
func (r *postgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_contents WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("repository: failed to delete contents for order %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		log.Debug().Int64("order_id", id).Msg("repository: delete affected no rows")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteDevice(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_contents WHERE device_id = $1`, id); err != nil {
		return fmt.Errorf("repository: failed to delete contents for device %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM devices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("repository: failed to delete device %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}
	return nil
}

func insertContents(ctx context.Context, tx *sqlx.Tx, orderID int64, contents []ContentEntry) error {
	for _, content := range contents {
		query := `INSERT INTO order_contents (order_id, device_id, count) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, orderID, content.DeviceID, content.Count); err != nil {
			return fmt.Errorf("repository: failed to insert content row for order %d: %w", orderID, err)
		}
	}
	return nil
}
