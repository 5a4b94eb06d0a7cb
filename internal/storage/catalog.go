package storage

import (
	"context"
	"database/sql"

	"quickbite/internal/domain"
	"quickbite/internal/service"
)

type PostgresCatalogRepository struct {
	DB *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

func (r *PostgresCatalogRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, price_cents, COALESCE(original_price_cents, 0), COALESCE(image_url, ''), active, created_at
		FROM products
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.OriginalPriceCents,
			&p.ImageURL, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresCatalogRepository) GetProduct(ctx context.Context, productID int) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, price_cents, COALESCE(original_price_cents, 0), COALESCE(image_url, ''), active, created_at
		FROM products
		WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &p.PriceCents, &p.OriginalPriceCents,
		&p.ImageURL, &p.Active, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresCatalogRepository) ListOptionGroups(ctx context.Context, productID int) ([]domain.OptionGroup, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, product_id, name, required, min_select, max_select
		FROM option_groups
		WHERE product_id = $1
		ORDER BY position, id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []domain.OptionGroup{}
	for rows.Next() {
		var g domain.OptionGroup
		if err := rows.Scan(&g.ID, &g.ProductID, &g.Name, &g.Required, &g.MinSelect, &g.MaxSelect); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	optRows, err := r.DB.QueryContext(ctx, `
		SELECT o.id, o.group_id, o.name, o.price_cents
		FROM options o
		JOIN option_groups g ON o.group_id = g.id
		WHERE g.product_id = $1
		ORDER BY o.position, o.id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	byGroup := make(map[int][]domain.Option)
	for optRows.Next() {
		var o domain.Option
		if err := optRows.Scan(&o.ID, &o.GroupID, &o.Name, &o.PriceCents); err != nil {
			return nil, err
		}
		byGroup[o.GroupID] = append(byGroup[o.GroupID], o)
	}
	if err := optRows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].Options = byGroup[groups[i].ID]
	}
	return groups, nil
}

type PostgresUserRepository struct {
	DB *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

func (r *PostgresUserRepository) InsertUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (email, password, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, user.Email, user.Password, user.FullName, user.Phone, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return service.ErrDuplicateEmail
		}
		return err
	}
	return nil
}
