package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khedma/internal/domain"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	dsn := fmt.Sprintf("file:database_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := Connect(dsn)
	require.NoError(t, err, "the sqlite driver must be registered")
	require.NoError(t, Migrate(db))

	a := &domain.Actor{Name: "Hassan", Role: domain.RoleProvider, Trade: "plombier", HourlyRate: 10000, Available: true}
	require.NoError(t, db.Create(a).Error)

	var got domain.Actor
	require.NoError(t, db.First(&got, a.ID).Error)
	assert.Equal(t, "Hassan", got.Name)
}

func TestBookingsWithoutKeyDoNotCollide(t *testing.T) {
	dsn := fmt.Sprintf("file:database_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	// Rows written without an idempotency key (seeds, fixtures) must never
	// trip the unique index against each other.
	for i := 0; i < 3; i++ {
		b := &domain.Booking{
			RequesterID:  1,
			ProviderID:   2,
			RequestedFor: "Travaux",
			Description:  "Description",
			Status:       domain.BookingPending,
		}
		require.NoError(t, db.Create(b).Error, "keyless insert %d", i)
	}

	key := "unique-key-1"
	require.NoError(t, db.Create(&domain.Booking{
		RequesterID:    1,
		ProviderID:     2,
		RequestedFor:   "Travaux",
		Description:    "Description",
		Status:         domain.BookingPending,
		IdempotencyKey: &key,
	}).Error)

	// The index still bites when a real key repeats.
	err = db.Create(&domain.Booking{
		RequesterID:    1,
		ProviderID:     2,
		RequestedFor:   "Travaux",
		Description:    "Description",
		Status:         domain.BookingPending,
		IdempotencyKey: &key,
	}).Error
	assert.Error(t, err)
}
