package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const restaurantColumns = `id, slug, name, description, banner, logo, cuisine, phone, email, address, hours,
	delivery_fee, minimum_order, estimated_min, estimated_max, payment_methods, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var (
		res                       domain.Restaurant
		address, hours, methods   string
		deliveryFee, minimumOrder string
	)
	err := row.Scan(
		&res.ID, &res.Slug, &res.Name, &res.Description, &res.Banner, &res.Logo, &res.Cuisine,
		&res.Contact.Phone, &res.Contact.Email, &address, &hours,
		&deliveryFee, &minimumOrder, &res.EstimatedMinMinutes, &res.EstimatedMaxMinutes,
		&methods, &res.IsActive, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(address), &res.Address); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if err := json.Unmarshal([]byte(hours), &res.Hours); err != nil {
		return nil, fmt.Errorf("decode hours: %w", err)
	}
	if err := json.Unmarshal([]byte(methods), &res.PaymentMethods); err != nil {
		return nil, fmt.Errorf("decode payment methods: %w", err)
	}
	if res.DeliveryFee, err = decimal.NewFromString(deliveryFee); err != nil {
		return nil, fmt.Errorf("decode delivery fee: %w", err)
	}
	if res.MinimumOrder, err = decimal.NewFromString(minimumOrder); err != nil {
		return nil, fmt.Errorf("decode minimum order: %w", err)
	}
	return &res, nil
}

func (r *SQLiteRepository) GetRestaurant(ctx context.Context, slug string) (*domain.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE slug = ?`, slug)
	res, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}

	if err := r.loadMenu(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *SQLiteRepository) ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var out []*domain.Restaurant
	for rows.Next() {
		res, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, res := range out {
		if err := r.loadMenu(ctx, res); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) loadMenu(ctx context.Context, res *domain.Restaurant) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories WHERE restaurant_id = ? ORDER BY position`, res.ID)
	if err != nil {
		return fmt.Errorf("failed to query categories: %w", err)
	}
	var categories []domain.Category
	index := make(map[string]int)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan category: %w", err)
		}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	prows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, name, description, price, image, featured, sizes, additionals
		FROM products
		WHERE restaurant_id = ?
		ORDER BY position`, res.ID)
	if err != nil {
		return fmt.Errorf("failed to query products: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var (
			p                         domain.Product
			price, sizes, additionals string
		)
		if err := prows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &price, &p.Image,
			&p.Featured, &sizes, &additionals); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("decode price of product %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(sizes), &p.Sizes); err != nil {
			return fmt.Errorf("decode sizes of product %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(additionals), &p.Additionals); err != nil {
			return fmt.Errorf("decode additionals of product %s: %w", p.ID, err)
		}
		i, ok := index[p.CategoryID]
		if !ok {
			continue
		}
		categories[i].Products = append(categories[i].Products, p)
	}
	if err := prows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	res.Categories = categories
	return nil
}

// SaveRestaurant replaces the restaurant and its whole menu in one transaction.
func (r *SQLiteRepository) SaveRestaurant(ctx context.Context, res *domain.Restaurant) error {
	address, err := json.Marshal(res.Address)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}
	hours, err := json.Marshal(res.Hours)
	if err != nil {
		return fmt.Errorf("encode hours: %w", err)
	}
	methods, err := json.Marshal(res.PaymentMethods)
	if err != nil {
		return fmt.Errorf("encode payment methods: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx, `SELECT id FROM restaurants WHERE slug = ?`, res.Slug).Scan(&owner)
	if err == nil && owner != res.ID {
		return ErrSlugTaken
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check slug: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO restaurants (`+restaurantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug, name = excluded.name, description = excluded.description,
			banner = excluded.banner, logo = excluded.logo, cuisine = excluded.cuisine,
			phone = excluded.phone, email = excluded.email, address = excluded.address,
			hours = excluded.hours, delivery_fee = excluded.delivery_fee,
			minimum_order = excluded.minimum_order, estimated_min = excluded.estimated_min,
			estimated_max = excluded.estimated_max, payment_methods = excluded.payment_methods,
			is_active = excluded.is_active`,
		res.ID, res.Slug, res.Name, res.Description, res.Banner, res.Logo, res.Cuisine,
		res.Contact.Phone, res.Contact.Email, string(address), string(hours),
		res.DeliveryFee.String(), res.MinimumOrder.String(), res.EstimatedMinMinutes, res.EstimatedMaxMinutes,
		string(methods), res.IsActive, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert restaurant: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE restaurant_id = ?`, res.ID); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE restaurant_id = ?`, res.ID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	position := 0
	for ci, c := range res.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (restaurant_id, id, name, position) VALUES (?, ?, ?, ?)`,
			res.ID, c.ID, c.Name, ci); err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
		for _, p := range c.Products {
			sizes, err := json.Marshal(nonNil(p.Sizes))
			if err != nil {
				return fmt.Errorf("encode sizes: %w", err)
			}
			additionals, err := json.Marshal(nonNil(p.Additionals))
			if err != nil {
				return fmt.Errorf("encode additionals: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (restaurant_id, id, category_id, name, description, price, image,
				                      featured, sizes, additionals, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				res.ID, p.ID, c.ID, p.Name, p.Description, p.Price.String(), p.Image,
				p.Featured, string(sizes), string(additionals), position); err != nil {
				return fmt.Errorf("insert product %s: %w", p.ID, err)
			}
			position++
		}
	}

	return tx.Commit()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
