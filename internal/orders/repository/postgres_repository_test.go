package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
)

func setupTestDB(t *testing.T) (*PostgresRepository, func()) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewPostgresRepository(creds, logger.Discard())
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestPostgres_CreateAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("bistro", time.Now().UTC().Truncate(time.Millisecond))

	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.Equal(t, FirstOrderNumber, order.OrderNumber)

	fetched, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, order.OrderNumber, fetched.OrderNumber)
	assert.Equal(t, order.Status, fetched.Status)
	assert.Equal(t, order.Customer, fetched.Customer)
	assert.Equal(t, order.DeliveryAddress, fetched.DeliveryAddress)
	assert.True(t, order.Total.Equal(fetched.Total))
	assert.True(t, order.ChangeFor.Equal(fetched.ChangeFor))
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, order.Items[0].ProductID, fetched.Items[0].ProductID)
	assert.Nil(t, fetched.ConfirmedAt)
}

func TestPostgres_Duplicate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("bistro", time.Now())
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.ErrorIs(t, repo.CreateOrder(ctx, order), ErrDuplicateOrder)
}

func TestPostgres_NumbersAndListing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().UTC()
	first := newTestOrder("bistro", base)
	second := newTestOrder("bistro", base.Add(time.Second))
	other := newTestOrder("cantina", base)
	other.DeliveryType = domain.DeliveryTypePickup
	other.DeliveryAddress = nil

	require.NoError(t, repo.CreateOrder(ctx, first))
	require.NoError(t, repo.CreateOrder(ctx, second))
	require.NoError(t, repo.CreateOrder(ctx, other))
	assert.Equal(t, FirstOrderNumber+1, second.OrderNumber)
	assert.Equal(t, FirstOrderNumber, other.OrderNumber)

	orders, err := repo.ListOrdersByRestaurant(ctx, "bistro")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)

	pickup, err := repo.GetOrderByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, pickup.DeliveryAddress)
}

func TestPostgres_UpdateStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("bistro", time.Now().UTC())
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, order.TransitionTo(domain.OrderStatusConfirmed, time.Now().UTC()))
	require.NoError(t, repo.UpdateOrderStatus(ctx, order, domain.OrderStatusReceived))

	fetched, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, fetched.Status)
	assert.NotNil(t, fetched.ConfirmedAt)

	_, err = repo.GetOrderByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Stale writer: still believes the order is RECEIVED.
	stale := *fetched
	stale.Status = domain.OrderStatusCancelled
	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, &stale, domain.OrderStatusReceived), ErrStatusConflict)

	missing := newTestOrder("bistro", time.Now().UTC())
	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, missing, domain.OrderStatusReceived), ErrOrderNotFound)

	fetched, err = repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, fetched.Status)
}
