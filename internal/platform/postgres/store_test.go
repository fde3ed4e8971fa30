package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// setupTestDB connects to DATABASE_URL and applies migrations.
// Tests using it are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, dbURL)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, "up", setupTestLogger()), "Failed to run migrations")
	return db
}

// withTx runs fn inside a transaction that is always rolled back.
func withTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

func TestPostgresPersonStore(t *testing.T) {
	db := setupTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := NewPostgresPersonStore(tx, setupTestLogger())
		id, _ := domain.NewPersonID("pg-person-1")

		_, err := s.GetPerson(ctx, id)
		assert.ErrorIs(t, err, store.ErrPersonNotFound)

		person, err := domain.NewPerson(id, "Grace")
		require.NoError(t, err)
		require.NoError(t, s.SavePerson(ctx, person))

		got, err := s.GetPerson(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, person, got)

		person.Name = "Grace Hopper"
		require.NoError(t, s.SavePerson(ctx, person))

		got, err = s.GetPerson(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Grace Hopper", got.Name)

		err = s.SavePerson(ctx, &domain.Person{ID: id})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresProductStore(t *testing.T) {
	db := setupTestDB(t)

	withTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := NewPostgresProductStore(tx, setupTestLogger())
		id, _ := domain.NewProductID("pg-sku-1")
		price, _ := domain.NewPrice(19.99)

		_, err := s.GetProduct(ctx, id)
		assert.ErrorIs(t, err, store.ErrProductNotFound)

		product, err := domain.NewProduct(id, "Kettle", "Boils water", price)
		require.NoError(t, err)
		require.NoError(t, s.SaveProduct(ctx, product))

		got, err := s.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, product, got)
		assert.Equal(t, int64(1999), got.Price.Cents())
	})
}
