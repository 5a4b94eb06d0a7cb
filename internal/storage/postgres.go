package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quickbite/internal/domain"
	"quickbite/internal/service"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type PostgresOrderRepository struct {
	DB *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// EnsureSchema creates the storefront tables when they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			full_name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			original_price_cents BIGINT,
			image_url TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS option_groups (
			id SERIAL PRIMARY KEY,
			product_id INTEGER NOT NULL REFERENCES products(id),
			name TEXT NOT NULL,
			required BOOLEAN NOT NULL DEFAULT FALSE,
			min_select INTEGER NOT NULL DEFAULT 0,
			max_select INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS options (
			id SERIAL PRIMARY KEY,
			group_id INTEGER NOT NULL REFERENCES option_groups(id),
			name TEXT NOT NULL,
			price_cents BIGINT NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL DEFAULT 0,
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_method TEXT NOT NULL,
			total_cents BIGINT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			change_for_cents BIGINT,
			notes TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT UNIQUE,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			product_id INTEGER NOT NULL,
			product_name TEXT NOT NULL,
			unit_price_cents BIGINT NOT NULL,
			quantity INTEGER NOT NULL,
			subtotal_cents BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_item_options (
			id SERIAL PRIMARY KEY,
			order_item_id INTEGER NOT NULL REFERENCES order_items(id),
			option_id INTEGER NOT NULL,
			option_name TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			quantity INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_status_history (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			status TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresOrderRepository) FindIDByIdempotencyKey(ctx context.Context, key string) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE idempotency_key = $1`, key).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateOrder writes the order, its items, their options and the initial
// pending history row in a single transaction, so a failure anywhere leaves
// no partial order behind.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var idempotencyKey sql.NullString
	if order.IdempotencyKey != "" {
		idempotencyKey = sql.NullString{String: order.IdempotencyKey, Valid: true}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, customer_name, customer_phone, status, payment_method,
			total_cents, address, latitude, longitude, change_for_cents, notes, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, order.CustomerID, order.CustomerName, order.CustomerPhone, order.Status, order.PaymentMethod,
		order.TotalCents, order.Address, order.Latitude, order.Longitude, order.ChangeForCents,
		order.Notes, idempotencyKey).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return service.ErrDuplicateIdempotencyKey
		}
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, order.ID, item.ProductID, item.ProductName, item.UnitPriceCents, item.Quantity, item.SubtotalCents).
			Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		for j := range item.Options {
			opt := &item.Options[j]
			opt.OrderItemID = item.ID
			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_item_options (order_item_id, option_id, option_name, price_cents, quantity)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, item.ID, opt.OptionID, opt.OptionName, opt.PriceCents, opt.Quantity).Scan(&opt.ID)
			if err != nil {
				return fmt.Errorf("failed to insert order item option: %w", err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status) VALUES ($1, $2)
	`, order.ID, order.Status)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

func (r *PostgresOrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	var order domain.Order
	var idempotencyKey sql.NullString
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, customer_id, customer_name, customer_phone, status, payment_method,
			total_cents, address, latitude, longitude, change_for_cents, notes,
			idempotency_key, qr_code, created_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&order.ID, &order.CustomerID, &order.CustomerName, &order.CustomerPhone,
		&order.Status, &order.PaymentMethod, &order.TotalCents, &order.Address,
		&order.Latitude, &order.Longitude, &order.ChangeForCents, &order.Notes,
		&idempotencyKey, &qrCode, &order.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	order.IdempotencyKey = idempotencyKey.String
	if len(qrCode) > 0 {
		order.QRCodeURL = fmt.Sprintf("/api/orders/%d/qrcode", order.ID)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price_cents, quantity, subtotal_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.UnitPriceCents, &item.Quantity, &item.SubtotalCents); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	optRows, err := r.DB.QueryContext(ctx, `
		SELECT oio.id, oio.order_item_id, oio.option_id, oio.option_name, oio.price_cents, oio.quantity
		FROM order_item_options oio
		JOIN order_items oi ON oio.order_item_id = oi.id
		WHERE oi.order_id = $1
		ORDER BY oio.id
	`, order.ID)
	if err != nil {
		return err
	}
	defer optRows.Close()

	byItem := make(map[int][]domain.OrderItemOption)
	for optRows.Next() {
		var opt domain.OrderItemOption
		if err := optRows.Scan(&opt.ID, &opt.OrderItemID, &opt.OptionID, &opt.OptionName,
			&opt.PriceCents, &opt.Quantity); err != nil {
			return err
		}
		byItem[opt.OrderItemID] = append(byItem[opt.OrderItemID], opt)
	}
	if err := optRows.Err(); err != nil {
		return err
	}

	for i := range order.Items {
		order.Items[i].Options = byItem[order.Items[i].ID]
	}
	return nil
}

func (r *PostgresOrderRepository) loadHistory(ctx context.Context, order *domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, status, note, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.History = []domain.StatusHistoryEntry{}
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Status, &entry.Note, &entry.CreatedAt); err != nil {
			return err
		}
		order.History = append(order.History, entry)
	}
	return rows.Err()
}

func (r *PostgresOrderRepository) ListOrders(ctx context.Context, status string, customerID int) ([]domain.Order, error) {
	query := `
		SELECT id, customer_id, customer_name, customer_phone, status, payment_method, total_cents, created_at
		FROM orders
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = 0 OR customer_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, status, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.CustomerName, &order.CustomerPhone,
			&order.Status, &order.PaymentMethod, &order.TotalCents, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// TransitionStatus is the concurrency guard for the status machine: the
// UPDATE only matches while the stored status still equals fromStatus, so a
// racing operator loses cleanly instead of overwriting.
func (r *PostgresOrderRepository) TransitionStatus(ctx context.Context, orderID int, fromStatus, toStatus, note string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1 WHERE id = $2 AND status = $3
	`, toStatus, orderID, fromStatus)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, note) VALUES ($1, $2, $3)
	`, orderID, toStatus, note)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *PostgresOrderRepository) CurrentStatus(ctx context.Context, orderID int) (string, error) {
	var status string
	err := r.DB.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *PostgresOrderRepository) StoreQRCode(ctx context.Context, orderID int, png []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, png, orderID)
	return err
}

func (r *PostgresOrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var png []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE id = $1`, orderID).Scan(&png)
	if err == sql.ErrNoRows {
		return nil, service.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return png, nil
}

func (r *PostgresOrderRepository) FindOrdersWithoutItems(ctx context.Context) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.id
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.id IS NULL
		ORDER BY o.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
