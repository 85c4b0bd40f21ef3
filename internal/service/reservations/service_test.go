package reservations

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/infra/queue"
	reservationRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/reservation"
	userClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/SportHub-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SportHub-ReservationService/pkg/ptr"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// Fakes

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation

	// afterGetByID выполняется один раз после GetByID: моделирует изменение,
	// закоммитившееся между чтением сервиса и его условным UPDATE
	afterGetByID func()
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[int64]*domain.Reservation)}
}

func (r *fakeReservationRepo) put(res *domain.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[res.ID] = res
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.mu.Lock()
	res, ok := r.reservations[id]
	if !ok {
		r.mu.Unlock()
		return nil, reservationRepo.ErrReservationNotFound
	}
	clone := *res
	hook := r.afterGetByID
	r.afterGetByID = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &clone, nil
}

func (r *fakeReservationRepo) GetByUserID(_ context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Reservation
	for _, res := range r.reservations {
		if res.UserID != userID {
			continue
		}
		if status != nil && res.Status != *status {
			continue
		}
		clone := *res
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeReservationRepo) GetByActivityWithFilter(_ context.Context, filter domain.ActivityReservationsFilter) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Reservation
	for _, res := range r.reservations {
		if res.ActivityID != filter.ActivityID {
			continue
		}
		if !filter.IncludeInactive && res.IsCancelled() {
			continue
		}
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		clone := *res
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, from, to domain.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Как и в SQL, условие на текущий статус - часть запроса
	res, ok := r.reservations[id]
	if !ok || res.Status != from {
		return reservationRepo.ErrStatusConflict
	}
	res.Status = to
	return nil
}

func (r *fakeReservationRepo) Cancel(_ context.Context, id int64, cancelledBy domain.CancelledBy, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok || res.IsCancelled() {
		return reservationRepo.ErrStatusConflict
	}
	now := time.Now()
	res.Status = domain.StatusCancelled
	res.CancelledBy = &cancelledBy
	res.CancelledAt = &now
	if reason != "" {
		res.CancellationReason = &reason
	}
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[id]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	delete(r.reservations, id)
	return nil
}

type fakeUserClient struct {
	users map[int64]*userClient.User
}

func (c *fakeUserClient) GetUser(_ context.Context, userID int64) (*userClient.User, error) {
	user, ok := c.users[userID]
	if !ok {
		return nil, userClient.ErrUserNotFound
	}
	return user, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (p *fakePublisher) Publish(_ context.Context, event queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, len(p.events))
	for i, e := range p.events {
		actions[i] = e.Action
	}
	return actions
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Test fixture

const (
	ownerID    = int64(42)
	adminID    = int64(1)
	strangerID = int64(99)
)

type fixture struct {
	svc       *Service
	repo      *fakeReservationRepo
	publisher *fakePublisher
}

func newFixture() *fixture {
	users := &fakeUserClient{users: map[int64]*userClient.User{
		ownerID:    {ID: ownerID, Role: userClient.RoleUser, IsActive: true},
		adminID:    {ID: adminID, Role: userClient.RoleAdmin, IsActive: true},
		strangerID: {ID: strangerID, Role: userClient.RoleUser, IsActive: true},
	}}

	f := &fixture{
		repo:      newFakeReservationRepo(),
		publisher: &fakePublisher{},
	}
	f.svc = NewService(f.repo, users, f.publisher, nopLogger{})
	return f
}

func (f *fixture) seedReservation(id int64, status domain.ReservationStatus) *domain.Reservation {
	res := &domain.Reservation{
		ID:               id,
		UserID:           ownerID,
		ActivityID:       1,
		ScheduleSlot:     types.SlotLabel("Monday 18:00"),
		OccurrenceDate:   time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		ParticipantCount: 2,
		Status:           status,
		ActivityName:     "Yoga",
		UnitPrice:        15.0,
		TotalPrice:       30.0,
	}
	f.repo.put(res)
	return res
}

func (f *fixture) waitForEvent(t *testing.T, action string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, a := range f.publisher.actions() {
			if a == action {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

// GetByID

func TestGetByID_OwnerSeesOwnReservation(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	resp, err := f.svc.GetByID(context.Background(), 1, ownerID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 30.0, resp.TotalPrice)
}

func TestGetByID_AdminSeesAnyReservation(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	resp, err := f.svc.GetByID(context.Background(), 1, adminID)

	require.NoError(t, err)
	assert.Equal(t, ownerID, resp.UserID)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	_, err := f.svc.GetByID(context.Background(), 1, strangerID)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByID(context.Background(), 404, ownerID)

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

// GetUserReservations

func TestGetUserReservations_OwnHistory(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)
	f.seedReservation(2, domain.StatusCancelled)

	resp, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID:       ownerID,
		TargetUserID: ownerID,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)
}

func TestGetUserReservations_StatusFilter(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)
	f.seedReservation(2, domain.StatusCancelled)

	resp, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID:       ownerID,
		TargetUserID: ownerID,
		Status:       ptr.Ptr("cancelled"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "cancelled", resp.Reservations[0].Status)
}

func TestGetUserReservations_LegacyStatusAccepted(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	// Старые клиенты присылают испаноязычные статусы
	resp, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID:       ownerID,
		TargetUserID: ownerID,
		Status:       ptr.Ptr("Pendiente"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "pending", resp.Reservations[0].Status)
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID:       ownerID,
		TargetUserID: ownerID,
		Status:       ptr.Ptr("archived"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUserReservations_ForeignHistoryRequiresAdmin(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	_, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID:       strangerID,
		TargetUserID: ownerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID:       adminID,
		TargetUserID: ownerID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)
}

// GetActivityReservations

func TestGetActivityReservations_AdminOnly(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	_, err := f.svc.GetActivityReservations(context.Background(), &models.GetActivityReservationsRequest{
		UserID:     ownerID,
		ActivityID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.GetActivityReservations(context.Background(), &models.GetActivityReservationsRequest{
		UserID:     adminID,
		ActivityID: 1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)
}

func TestGetActivityReservations_ExcludesCancelledByDefault(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusConfirmed)
	f.seedReservation(2, domain.StatusCancelled)

	resp, err := f.svc.GetActivityReservations(context.Background(), &models.GetActivityReservationsRequest{
		UserID:     adminID,
		ActivityID: 1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)

	resp, err = f.svc.GetActivityReservations(context.Background(), &models.GetActivityReservationsRequest{
		UserID:          adminID,
		ActivityID:      1,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)
}

// Confirm

func TestConfirm_AdminConfirmsPending(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	resp, err := f.svc.Confirm(context.Background(), 1, &models.ConfirmReservationRequest{UserID: adminID})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	stored, err := f.repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	f.waitForEvent(t, queue.ActionConfirmed)
}

func TestConfirm_NonAdminDenied(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	// Даже владелец не может подтвердить своё бронирование
	_, err := f.svc.Confirm(context.Background(), 1, &models.ConfirmReservationRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestConfirm_AlreadyConfirmed(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusConfirmed)

	_, err := f.svc.Confirm(context.Background(), 1, &models.ConfirmReservationRequest{UserID: adminID})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirm_CancelledIsTerminal(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusCancelled)

	_, err := f.svc.Confirm(context.Background(), 1, &models.ConfirmReservationRequest{UserID: adminID})

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestConfirm_ConcurrentCancelNotOverwritten(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	// Отмена коммитится между чтением Confirm и его UPDATE
	f.repo.afterGetByID = func() {
		f.repo.mu.Lock()
		defer f.repo.mu.Unlock()
		cancelledBy := domain.CancelledByUser
		f.repo.reservations[1].Status = domain.StatusCancelled
		f.repo.reservations[1].CancelledBy = &cancelledBy
	}

	_, err := f.svc.Confirm(context.Background(), 1, &models.ConfirmReservationRequest{UserID: adminID})

	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	// Терминальный статус не воскрешён - места корзины остаются свободными
	stored, getErr := f.repo.GetByID(context.Background(), 1)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Empty(t, f.publisher.actions())
}

// Cancel

func TestCancel_OwnerCancelsOwn(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             ownerID,
		CancellationReason: "не смогу прийти",
	})

	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledBy)
	assert.Equal(t, domain.CancelledByUser, *stored.CancelledBy)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, "не смогу прийти", *stored.CancellationReason)

	f.waitForEvent(t, queue.ActionCancelled)
}

func TestCancel_AdminCancelsForeign(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusConfirmed)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: adminID})

	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored.CancelledBy)
	assert.Equal(t, domain.CancelledByAdmin, *stored.CancelledBy)
}

func TestCancel_StrangerDenied(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: strangerID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_ConcurrentCancelKeepsFirstAttribution(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusConfirmed)

	// Отмена владельца коммитится между чтением админской отмены и её UPDATE
	f.repo.afterGetByID = func() {
		require.NoError(t, f.repo.Cancel(context.Background(), 1, domain.CancelledByUser, "передумал"))
	}

	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: adminID})

	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	stored, getErr := f.repo.GetByID(context.Background(), 1)
	require.NoError(t, getErr)
	require.NotNil(t, stored.CancelledBy)
	assert.Equal(t, domain.CancelledByUser, *stored.CancelledBy)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, "передумал", *stored.CancellationReason)
}

func TestCancel_StrangerCannotProbeCancelledState(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusCancelled)

	// Посторонний получает 403, а не 409 с информацией о состоянии
	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: strangerID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_RepeatedCancellationFails(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	require.NoError(t, f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: ownerID}))

	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusPending)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             ownerID,
		CancellationReason: strings.Repeat("a", domain.MaxCancellationReasonLen+1),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.Cancel(context.Background(), 404, &models.CancelReservationRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

// Delete

func TestDelete_AdminOnly(t *testing.T) {
	f := newFixture()
	f.seedReservation(1, domain.StatusCancelled)

	err := f.svc.Delete(context.Background(), 1, ownerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	require.NoError(t, f.svc.Delete(context.Background(), 1, adminID))

	_, err = f.repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, reservationRepo.ErrReservationNotFound)

	f.waitForEvent(t, queue.ActionDeleted)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.Delete(context.Background(), 404, adminID)

	assert.ErrorIs(t, err, ErrReservationNotFound)
}
