package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"khedma/internal/database"
	"khedma/internal/domain"
	"khedma/internal/modules/payment"
	"khedma/internal/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:booking_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	actorRepo := repository.NewActorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	gate := payment.NewService(repository.NewInstrumentRepository(db))

	return NewService(db, actorRepo, bookingRepo, notifRepo, gate, nil), db
}

func seedClient(t *testing.T, db *gorm.DB, name string) *domain.Actor {
	t.Helper()
	a := &domain.Actor{Name: name, Role: domain.RoleClient}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedProvider(t *testing.T, db *gorm.DB, name, trade string, rate int64) *domain.Actor {
	t.Helper()
	a := &domain.Actor{Name: name, Role: domain.RoleProvider, Trade: trade, HourlyRate: rate, Available: true}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedCard(t *testing.T, db *gorm.DB, ownerID int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.PaymentInstrument{
		OwnerID: ownerID,
		Brand:   "visa",
		Last4:   "4242",
		Expiry:  "12/27",
	}).Error)
}

func notifCount(t *testing.T, db *gorm.DB, ownerID int64, typ domain.NotificationType) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("owner_id = ? AND type = ?", ownerID, typ).
		Count(&cnt).Error)
	return cnt
}

func createReq(providerID int64) CreateBookingRequest {
	return CreateBookingRequest{
		ProviderID:   providerID,
		RequestedFor: "Fuite sous l'évier",
		Description:  "L'eau coule en continu depuis ce matin",
	}
}

func TestCreateGatedOnPaymentMethod(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)

	_, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.ErrorIs(t, err, ErrNoPaymentMethod)

	var cnt int64
	require.NoError(t, db.Model(&domain.Booking{}).Count(&cnt).Error)
	assert.Zero(t, cnt, "denied create must not leave a row behind")

	seedCard(t, db, client.ID)

	b, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, client.ID, b.RequesterID)
	assert.Equal(t, provider.ID, b.ProviderID)
	assert.Nil(t, b.Price)
	assert.Nil(t, b.Hours)

	// The provider is notified in the same transaction.
	assert.EqualValues(t, 1, notifCount(t, db, provider.ID, domain.NotifBookingRequested))
}

func TestCreateValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	other := seedClient(t, db, "Omar")
	seedCard(t, db, client.ID)

	_, err := svc.Create(ctx, client.ID, CreateBookingRequest{ProviderID: provider.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, client.ID, createReq(client.ID))
	assert.ErrorIs(t, err, ErrSelfBooking)

	_, err = svc.Create(ctx, client.ID, createReq(99999))
	assert.ErrorIs(t, err, ErrActorNotFound)

	// Booking a fellow client is not a thing.
	_, err = svc.Create(ctx, client.ID, createReq(other.ID))
	assert.ErrorIs(t, err, ErrWrongRole)

	// Providers do not request bookings.
	_, err = svc.Create(ctx, provider.ID, createReq(provider.ID+1))
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestCreateIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)

	req := createReq(provider.ID)
	req.IdempotencyKey = "retry-key-1"

	first, err := svc.Create(ctx, client.ID, req)
	require.NoError(t, err)

	second, err := svc.Create(ctx, client.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var cnt int64
	require.NoError(t, db.Model(&domain.Booking{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	// The replay rolls back before the notification insert, so the provider
	// hears about the request exactly once.
	assert.EqualValues(t, 1, notifCount(t, db, provider.ID, domain.NotifBookingRequested))
}

func TestCreateKeyCollisionAcrossClients(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	yasmine := seedClient(t, db, "Yasmine")
	omar := seedClient(t, db, "Omar")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, yasmine.ID)
	seedCard(t, db, omar.ID)

	req := createReq(provider.ID)
	req.IdempotencyKey = "shared-key"

	first, err := svc.Create(ctx, yasmine.ID, req)
	require.NoError(t, err)

	// Another client reusing the key must not be handed the original booking.
	_, err = svc.Create(ctx, omar.ID, req)
	require.ErrorIs(t, err, ErrConflict)

	existing, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, yasmine.ID, existing.RequesterID)
}

func TestAcceptFlow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)

	b, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)

	// Only the assigned provider may act.
	_, err = svc.Accept(ctx, b.ID, client.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	accepted, err := svc.Accept(ctx, b.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, accepted.Status)
	assert.EqualValues(t, 1, notifCount(t, db, client.ID, domain.NotifBookingAccepted))

	// Accepting twice is illegal, not a silent no-op.
	_, err = svc.Accept(ctx, b.ID, provider.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "ACCEPTED -> ACCEPTED")
}

func TestRefuseIsTerminal(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)

	b, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)

	refused, err := svc.Refuse(ctx, b.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingRefused, refused.Status)
	assert.EqualValues(t, 1, notifCount(t, db, client.ID, domain.NotifBookingRefused))

	_, err = svc.Accept(ctx, b.ID, provider.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Complete(ctx, b.ID, provider.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteSettlesPrice(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)

	b, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)

	// Completion straight from PENDING is illegal.
	_, err = svc.Complete(ctx, b.ID, provider.ID, 2.5)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Accept(ctx, b.ID, provider.ID)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, b.ID, client.ID, 2.5)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Complete(ctx, b.ID, provider.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	done, err := svc.Complete(ctx, b.ID, provider.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, done.Status)
	require.NotNil(t, done.Price)
	assert.EqualValues(t, 25000, *done.Price)
	require.NotNil(t, done.Hours)
	assert.Equal(t, 2.5, *done.Hours)
	assert.NotNil(t, done.CompletedAt)
	assert.EqualValues(t, 1, notifCount(t, db, client.ID, domain.NotifBookingCompleted))

	// COMPLETED is terminal and the settled price never moves.
	_, err = svc.Complete(ctx, b.ID, provider.ID, 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reread, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, reread.Price)
	assert.EqualValues(t, 25000, *reread.Price)
}

func TestCompleteUsesRateAtCompletion(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)

	b, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)
	_, err = svc.Accept(ctx, b.ID, provider.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Actor{}).
		Where("id = ?", provider.ID).
		Update("hourly_rate", 12000).Error)

	done, err := svc.Complete(ctx, b.ID, provider.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, done.Price)
	assert.EqualValues(t, 24000, *done.Price)
}

// staleReadRepo simulates a racer: after the first read it moves the booking
// to ACCEPTED, so the caller's guarded write matches zero rows.
type staleReadRepo struct {
	*repository.BookingRepository
	db   *gorm.DB
	once sync.Once
}

func (r *staleReadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := r.BookingRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.once.Do(func() {
		r.db.Model(&domain.Booking{}).
			Where("id = ?", id).
			Update("status", domain.BookingAccepted)
	})
	return b, nil
}

func TestTransitionRaceHasOneWinner(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	actorRepo := repository.NewActorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	gate := payment.NewService(repository.NewInstrumentRepository(db))

	racing := &staleReadRepo{BookingRepository: bookingRepo, db: db}
	svc := NewService(db, actorRepo, racing, notifRepo, gate, nil)

	client := seedClient(t, db, "Yasmine")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)

	b, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)

	// This caller read PENDING, but the racer accepted first.
	_, err = svc.Refuse(ctx, b.ID, provider.ID)
	require.ErrorIs(t, err, ErrConflict)

	final, err := bookingRepo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, final.Status)

	// The loser's transaction rolled back, so no refusal notification.
	assert.Zero(t, notifCount(t, db, client.ID, domain.NotifBookingRefused))
}

func TestGetByIDUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForActor(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := seedClient(t, db, "Yasmine")
	other := seedClient(t, db, "Omar")
	provider := seedProvider(t, db, "Hassan", "plombier", 10000)
	seedCard(t, db, client.ID)
	seedCard(t, db, other.ID)

	_, err := svc.Create(ctx, client.ID, createReq(provider.ID))
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, createReq(provider.ID))
	require.NoError(t, err)

	mine, err := svc.ListForActor(ctx, client.ID, domain.RoleClient)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assigned, err := svc.ListForActor(ctx, provider.ID, domain.RoleProvider)
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	_, err = svc.ListForActor(ctx, client.ID, domain.ActorRole("admin"))
	assert.ErrorIs(t, err, ErrValidation)
}
