package create_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	"github.com/m04kA/SportHub-ReservationService/internal/infra/queue"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/SportHub-ReservationService/pkg/ptr"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// Fakes

// fakeReservationRepo потокобезопасное in-memory хранилище бронирований
type fakeReservationRepo struct {
	mu           sync.Mutex
	nextID       int64
	reservations []*domain.Reservation
}

func (r *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	res.ID = r.nextID
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt

	stored := *res
	r.reservations = append(r.reservations, &stored)
	return res, nil
}

func (r *fakeReservationRepo) GetActiveByBucket(_ context.Context, bucket domain.SlotBucket) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Reservation
	for _, res := range r.reservations {
		if res.ActivityID == bucket.ActivityID &&
			res.ScheduleSlot.EqualFold(bucket.ScheduleSlot) &&
			res.OccurrenceDate.Equal(bucket.OccurrenceDate) &&
			res.IsActive() {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) ExistsActiveByBucketAndUser(ctx context.Context, bucket domain.SlotBucket, userID int64) (bool, error) {
	active, err := r.GetActiveByBucket(ctx, bucket)
	if err != nil {
		return false, err
	}
	for _, res := range active {
		if res.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReservationRepo) cancel(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.ID == id {
			res.Status = domain.StatusCancelled
		}
	}
}

// fakePolicyRepo возвращает заданную политику либо ErrPolicyNotFound
type fakePolicyRepo struct {
	policy *domain.ReservationPolicy
}

func (r *fakePolicyRepo) GetEffective(_ context.Context, _ int64) (*domain.ReservationPolicy, error) {
	if r.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return r.policy, nil
}

type fakeActivityClient struct {
	activity *activityservice.Activity
	err      error
}

func (c *fakeActivityClient) GetActivity(_ context.Context, _ int64) (*activityservice.Activity, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.activity, nil
}

type fakeUserClient struct {
	user *userservice.User
	err  error
}

func (c *fakeUserClient) GetUser(_ context.Context, _ int64) (*userservice.User, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.user, nil
}

// fakeTxManager сериализует транзакции mutex-ом: проверка ёмкости и вставка
// внутри fn выполняются атомарно, как и в настоящей serializable-транзакции
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
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

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Test fixture

// 2025-10-13 - понедельник
var (
	testNow  = time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	testSlot = types.SlotLabel("Monday 18:00")
)

func testActivity() *activityservice.Activity {
	return &activityservice.Activity{
		ID:          1,
		Name:        "Yoga",
		MaxCapacity: 10,
		Schedule:    []string{"Monday 18:00", "Wednesday 18:00"},
		Price:       15.0,
		IsActive:    true,
	}
}

func testUser() *userservice.User {
	return &userservice.User{ID: 42, Role: userservice.RoleUser, IsActive: true}
}

type fixture struct {
	uc       *UseCase
	repo     *fakeReservationRepo
	activity *fakeActivityClient
	user     *fakeUserClient
	policy   *fakePolicyRepo
	events   *fakePublisher
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &fakeReservationRepo{},
		activity: &fakeActivityClient{activity: testActivity()},
		user:     &fakeUserClient{user: testUser()},
		policy:   &fakePolicyRepo{},
		events:   &fakePublisher{},
	}
	f.uc = NewUseCase(f.repo, f.policy, f.activity, f.user, &fakeTxManager{}, f.events, nopLogger{})
	f.uc.timeProvider = &fakeTimeProvider{now: testNow}
	return f
}

func testRequest(userID int64, count int) *Request {
	return &Request{
		UserID:           userID,
		ActivityID:       1,
		ScheduleSlot:     testSlot,
		Date:             testDate,
		ParticipantCount: count,
	}
}

// Tests

func TestExecute_CreatesPendingReservation(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testRequest(42, 3))

	require.NoError(t, err)
	res := resp.Reservation
	assert.Equal(t, int64(42), res.UserID)
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, 3, res.ParticipantCount)
	assert.Equal(t, "Yoga", res.ActivityName)
	assert.Equal(t, 15.0, res.UnitPrice)
	assert.Equal(t, 45.0, res.TotalPrice)
	assert.NotZero(t, res.ID)
}

func TestExecute_ActivityNotFound(t *testing.T) {
	f := newFixture()
	f.activity.err = activityservice.ErrActivityNotFound

	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))

	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestExecute_InactiveActivity(t *testing.T) {
	f := newFixture()
	f.activity.activity.IsActive = false

	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))

	assert.ErrorIs(t, err, ErrActivityUnavailable)
}

func TestExecute_SlotNotInSchedule(t *testing.T) {
	f := newFixture()

	req := testRequest(42, 1)
	req.ScheduleSlot = types.SlotLabel("Friday 18:00")
	// 2025-10-17 - пятница, день недели совпадает, но слота нет в расписании
	req.Date = time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_DateDoesNotMatchSlotWeekday(t *testing.T) {
	f := newFixture()

	req := testRequest(42, 1)
	// 2025-10-14 - вторник, а слот понедельничный
	req.Date = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()

	req := testRequest(42, 1)
	// Прошлый понедельник
	req.Date = time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateBeyondAdvanceLimit(t *testing.T) {
	f := newFixture()
	f.policy.policy = &domain.ReservationPolicy{
		ActivityID:       ptr.Ptr(int64(1)),
		MinNoticeMinutes: 0,
		MaxAdvanceDays:   5,
	}

	// Дата через 7 дней при лимите 5
	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_TooLateToBook(t *testing.T) {
	f := newFixture()
	f.policy.policy = &domain.ReservationPolicy{MinNoticeMinutes: 120}
	// До начала слота 30 минут при требуемых 120
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 10, 13, 17, 30, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))

	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_UnknownUser(t *testing.T) {
	f := newFixture()
	f.user.err = userservice.ErrUserNotFound

	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestExecute_DeactivatedUser(t *testing.T) {
	f := newFixture()
	f.user.user.IsActive = false

	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestExecute_InvalidParticipantCount(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest(42, 0))
	assert.ErrorIs(t, err, ErrInvalidParticipantCount)

	// Больше ёмкости активности
	_, err = f.uc.Execute(context.Background(), testRequest(42, 11))
	assert.ErrorIs(t, err, ErrInvalidParticipantCount)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	f := newFixture()

	// Ёмкость 10: бронируем 6, потом 5 не помещается, 4 помещается
	_, err := f.uc.Execute(context.Background(), testRequest(1, 6))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), testRequest(2, 5))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = f.uc.Execute(context.Background(), testRequest(3, 4))
	require.NoError(t, err)
}

func TestExecute_CancellationFreesCapacity(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Execute(context.Background(), testRequest(1, 6))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), testRequest(2, 4))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), testRequest(3, 5))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// Отмена первого бронирования освобождает 6 мест
	f.repo.cancel(first.Reservation.ID)

	_, err = f.uc.Execute(context.Background(), testRequest(3, 5))
	require.NoError(t, err)
}

func TestExecute_DuplicateReservation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest(42, 2))
	require.NoError(t, err)

	// Второе активное бронирование того же пользователя в той же корзине
	_, err = f.uc.Execute(context.Background(), testRequest(42, 1))
	assert.ErrorIs(t, err, ErrDuplicateReservation)
}

func TestExecute_SeparateBucketsDoNotCompete(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest(1, 10))
	require.NoError(t, err)

	// Тот же слот, другая дата - другая корзина с собственной ёмкостью
	req := testRequest(2, 10)
	req.Date = testDate.AddDate(0, 0, 7)

	_, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_ConcurrentRequestsNeverOverbook(t *testing.T) {
	f := newFixture()

	// 20 конкурентных запросов по 2 места при ёмкости 10:
	// ровно 5 должны пройти, сумма мест никогда не превышает ёмкость
	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), testRequest(int64(i+1), 2))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 5, succeeded)

	active, err := f.repo.GetActiveByBucket(context.Background(), domain.SlotBucket{
		ActivityID:     1,
		ScheduleSlot:   testSlot,
		OccurrenceDate: testDate,
	})
	require.NoError(t, err)

	sum := 0
	for _, res := range active {
		sum += res.ParticipantCount
	}
	assert.Equal(t, 10, sum)
}

func TestExecute_PublishesCreatedEvent(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testRequest(42, 3))
	require.NoError(t, err)

	// Публикация асинхронная
	require.Eventually(t, func() bool {
		f.events.mu.Lock()
		defer f.events.mu.Unlock()
		return len(f.events.events) == 1
	}, time.Second, 10*time.Millisecond)

	f.events.mu.Lock()
	event := f.events.events[0]
	f.events.mu.Unlock()

	assert.Equal(t, queue.ActionCreated, event.Action)
	assert.Equal(t, resp.Reservation.ID, event.ReservationID)
	assert.Equal(t, "pending", event.Status)
}

func TestExecute_DefaultPolicyWhenNoneStored(t *testing.T) {
	f := newFixture()
	// Политика не задана: действует дефолт minNotice=60, maxAdvance без лимита
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 10, 13, 17, 30, 0, 0, time.UTC)}

	// До начала слота 30 минут < дефолтных 60
	_, err := f.uc.Execute(context.Background(), testRequest(42, 1))
	assert.ErrorIs(t, err, ErrTooLateToBook)
}
