package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
	"github.com/m04kA/SportHub-ReservationService/pkg/ptr"
	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// Fakes

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (r *fakeReservationRepo) GetActiveByBucket(_ context.Context, _ domain.SlotBucket) ([]*domain.Reservation, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.reservations, nil
}

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

type fixture struct {
	uc       *UseCase
	repo     *fakeReservationRepo
	activity *fakeActivityClient
	policy   *fakePolicyRepo
}

func newFixture() *fixture {
	f := &fixture{
		repo: &fakeReservationRepo{},
		activity: &fakeActivityClient{activity: &activityservice.Activity{
			ID:          1,
			Name:        "Yoga",
			MaxCapacity: 10,
			Schedule:    []string{"Monday 18:00", "Wednesday 18:00"},
			IsActive:    true,
		}},
		policy: &fakePolicyRepo{},
	}
	f.uc = NewUseCase(f.repo, f.policy, f.activity, nopLogger{})
	f.uc.timeProvider = &fakeTimeProvider{now: testNow}
	return f
}

func testRequest() *Request {
	return &Request{
		ActivityID:   1,
		ScheduleSlot: testSlot,
		Date:         testDate,
	}
}

// Tests

func TestExecute_EmptyBucketReportsFullCapacity(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 10, resp.MaxCapacity)
	assert.Equal(t, 0, resp.ReservedSpots)
	assert.Equal(t, 10, resp.RemainingSpots)
}

func TestExecute_SumsActiveReservations(t *testing.T) {
	f := newFixture()
	f.repo.reservations = []*domain.Reservation{
		{ParticipantCount: 3, Status: domain.StatusPending},
		{ParticipantCount: 4, Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 7, resp.ReservedSpots)
	assert.Equal(t, 3, resp.RemainingSpots)
}

func TestExecute_OverCapacityReportsZeroRemaining(t *testing.T) {
	f := newFixture()
	// Ёмкость уменьшили в каталоге после создания бронирований
	f.activity.activity.MaxCapacity = 5
	f.repo.reservations = []*domain.Reservation{
		{ParticipantCount: 8, Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 8, resp.ReservedSpots)
	assert.Equal(t, 0, resp.RemainingSpots)
}

func TestExecute_ActivityNotFound(t *testing.T) {
	f := newFixture()
	f.activity.err = activityservice.ErrActivityNotFound

	_, err := f.uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestExecute_SlotNotInSchedule(t *testing.T) {
	f := newFixture()

	req := testRequest()
	req.ScheduleSlot = types.SlotLabel("Friday 18:00")
	req.Date = time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_SlotMatchedCaseInsensitively(t *testing.T) {
	f := newFixture()

	req := testRequest()
	req.ScheduleSlot = types.SlotLabel("monday 18:00")

	_, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
}

func TestExecute_DateDoesNotMatchSlotWeekday(t *testing.T) {
	f := newFixture()

	req := testRequest()
	// 2025-10-14 - вторник
	req.Date = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()

	req := testRequest()
	req.Date = time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateBeyondAdvanceLimit(t *testing.T) {
	f := newFixture()
	f.policy.policy = &domain.ReservationPolicy{
		ActivityID:     ptr.Ptr(int64(1)),
		MaxAdvanceDays: 5,
	}

	_, err := f.uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{ActivityID: 0, ScheduleSlot: testSlot, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{ActivityID: 1, ScheduleSlot: "", Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{ActivityID: 1, ScheduleSlot: testSlot})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
