package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cred *Credentials, log logrus.FieldLogger) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	log.WithFields(logrus.Fields{"host": cred.Host, "db": cred.DBName}).Info("connected to postgres")
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

const orderColumns = `id, order_number, restaurant_id, status, items, customer_name, customer_phone,
	delivery_type, delivery_address, table_number, payment_method, change_for, subtotal, delivery_fee,
	total, notes, created_at, updated_at, confirmed_at, delivered_at, estimated_delivery_time`

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	var address any
	if order.DeliveryAddress != nil {
		addressJSON, err := json.Marshal(order.DeliveryAddress)
		if err != nil {
			return fmt.Errorf("failed to marshal delivery address: %w", err)
		}
		address = string(addressJSON)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var number int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_counters (restaurant_id, last_number) VALUES ($1, $2)
		ON CONFLICT (restaurant_id) DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number`, order.RestaurantID, FirstOrderNumber).Scan(&number)
	if err != nil {
		return fmt.Errorf("next order number: %w", err)
	}

	_, insertErr := tx.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		order.ID,
		number,
		order.RestaurantID,
		order.Status,
		itemsJSON,
		order.Customer.Name,
		order.Customer.Phone,
		order.DeliveryType,
		address,
		order.TableNumber,
		order.PaymentMethod,
		order.ChangeFor,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
		nullTime(order.ConfirmedAt),
		nullTime(order.DeliveredAt),
		nullTime(order.EstimatedDeliveryTime),
	)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	order.OrderNumber = number
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                              domain.Order
		itemsJSON, addressJSON             []byte
		confirmedAt, deliveredAt, estimate sql.NullTime
	)
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.RestaurantID,
		&order.Status,
		&itemsJSON,
		&order.Customer.Name,
		&order.Customer.Phone,
		&order.DeliveryType,
		&addressJSON,
		&order.TableNumber,
		&order.PaymentMethod,
		&order.ChangeFor,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
		&confirmedAt,
		&deliveredAt,
		&estimate,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if addressJSON != nil {
		var addr domain.Address
		if err := json.Unmarshal(addressJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal delivery address: %w", err)
		}
		order.DeliveryAddress = &addr
	}
	order.ConfirmedAt = timePtr(confirmedAt)
	order.DeliveredAt = timePtr(deliveredAt)
	order.EstimatedDeliveryTime = timePtr(estimate)
	return &order, nil
}

func (r *PostgresRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) ListOrdersByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE restaurant_id = $1 ORDER BY created_at DESC`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query orders by restaurant: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = $3, confirmed_at = $4, delivered_at = $5
		WHERE id = $1 AND status = $6`,
		order.ID, order.Status, order.UpdatedAt, nullTime(order.ConfirmedAt), nullTime(order.DeliveredAt), from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, order.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
