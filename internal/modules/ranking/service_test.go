package ranking

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"khedma/internal/database"
	"khedma/internal/domain"
	"khedma/internal/repository"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:ranking_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewService(repository.NewBookingRepository(db)), db
}

func seedProvider(t *testing.T, db *gorm.DB, name, trade string, available bool) *domain.Actor {
	t.Helper()
	a := &domain.Actor{Name: name, Role: domain.RoleProvider, Trade: trade, HourlyRate: 10000, Available: available}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedBookings(t *testing.T, db *gorm.DB, providerID int64, n int, status domain.BookingStatus) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&domain.Booking{
			RequesterID:  1000,
			ProviderID:   providerID,
			RequestedFor: "Travaux",
			Description:  "Description",
			Status:       status,
		}).Error)
	}
}

func TestRankOrdersByAllTimeVolume(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	hassan := seedProvider(t, db, "Hassan", "plombier", true)
	karim := seedProvider(t, db, "Karim", "plombier", true)
	samira := seedProvider(t, db, "Samira", "electricien", true)

	seedBookings(t, db, hassan.ID, 2, domain.BookingPending)
	seedBookings(t, db, karim.ID, 5, domain.BookingRefused)
	seedBookings(t, db, samira.ID, 9, domain.BookingCompleted)

	entries, err := svc.Rank(ctx, "plombier", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2, "other trades stay out of the listing")

	// Refused bookings still count: score is demand, not outcome.
	assert.Equal(t, karim.ID, entries[0].ProviderID)
	assert.EqualValues(t, 5, entries[0].Score)
	assert.Equal(t, hassan.ID, entries[1].ProviderID)
	assert.EqualValues(t, 2, entries[1].Score)
}

func TestRankTieBreaksOnID(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	first := seedProvider(t, db, "Hassan", "plombier", true)
	second := seedProvider(t, db, "Karim", "plombier", true)

	seedBookings(t, db, first.ID, 3, domain.BookingPending)
	seedBookings(t, db, second.ID, 3, domain.BookingPending)

	entries, err := svc.Rank(ctx, "plombier", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ProviderID)
	assert.Equal(t, second.ID, entries[1].ProviderID)
}

func TestRankIncludesZeroScoreProviders(t *testing.T) {
	svc, db := newTestService(t)

	idle := seedProvider(t, db, "Hassan", "plombier", true)

	entries, err := svc.Rank(context.Background(), "plombier", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, idle.ID, entries[0].ProviderID)
	assert.Zero(t, entries[0].Score)
}

func TestRankSkipsUnavailableProviders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	busy := seedProvider(t, db, "Hassan", "plombier", false)
	free := seedProvider(t, db, "Karim", "plombier", true)
	seedBookings(t, db, busy.ID, 7, domain.BookingCompleted)

	entries, err := svc.Rank(ctx, "plombier", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, free.ID, entries[0].ProviderID)
}

func TestRankScoreSurvivesTransitions(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProvider(t, db, "Hassan", "plombier", true)
	seedBookings(t, db, p.ID, 4, domain.BookingPending)

	before, err := svc.Rank(ctx, "plombier", 10)
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Booking{}).
		Where("provider_id = ?", p.ID).
		Update("status", domain.BookingRefused).Error)

	after, err := svc.Rank(ctx, "plombier", 10)
	require.NoError(t, err)
	assert.Equal(t, before, after, "status changes never move the score")
}

func TestRankValidationAndLimit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Rank(ctx, "", 10)
	assert.ErrorIs(t, err, ErrValidation)

	for i := 0; i < 3; i++ {
		seedProvider(t, db, fmt.Sprintf("P%d", i), "plombier", true)
	}

	entries, err := svc.Rank(ctx, "plombier", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
