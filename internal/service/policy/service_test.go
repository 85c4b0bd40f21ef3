package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportHub-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	userClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/SportHub-ReservationService/internal/service/policy/models"
	"github.com/m04kA/SportHub-ReservationService/pkg/ptr"
)

// Fakes

type fakePolicyRepo struct {
	effective *domain.ReservationPolicy
	stored    *domain.ReservationPolicy
	deleted   bool
}

func (r *fakePolicyRepo) GetEffective(_ context.Context, _ int64) (*domain.ReservationPolicy, error) {
	if r.effective == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return r.effective, nil
}

func (r *fakePolicyRepo) GetByActivity(_ context.Context, _ *int64) (*domain.ReservationPolicy, error) {
	if r.stored == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return r.stored, nil
}

func (r *fakePolicyRepo) Upsert(_ context.Context, policy *domain.ReservationPolicy) (*domain.ReservationPolicy, error) {
	stored := *policy
	stored.ID = 1
	r.stored = &stored
	return &stored, nil
}

func (r *fakePolicyRepo) Delete(_ context.Context, _ *int64) error {
	if r.stored == nil && r.effective == nil {
		return policyRepo.ErrPolicyNotFound
	}
	r.deleted = true
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Test fixture

const (
	adminID = int64(1)
	userID  = int64(42)
)

func newService(repo *fakePolicyRepo) *Service {
	users := &fakeUserClient{users: map[int64]*userClient.User{
		adminID: {ID: adminID, Role: userClient.RoleAdmin, IsActive: true},
		userID:  {ID: userID, Role: userClient.RoleUser, IsActive: true},
	}}
	return NewService(repo, users, nopLogger{})
}

// Tests

func TestGetEffective_ReturnsStoredPolicy(t *testing.T) {
	repo := &fakePolicyRepo{effective: &domain.ReservationPolicy{
		ID:               1,
		ActivityID:       ptr.Ptr(int64(7)),
		MinNoticeMinutes: 120,
		MaxAdvanceDays:   30,
	}}
	svc := newService(repo)

	resp, err := svc.GetEffective(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 120, resp.MinNoticeMinutes)
	assert.Equal(t, 30, resp.MaxAdvanceDays)
	assert.False(t, resp.IsDefault)
}

func TestGetEffective_DefaultsWhenNoPolicy(t *testing.T) {
	svc := newService(&fakePolicyRepo{})

	resp, err := svc.GetEffective(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMinNoticeMinutes, resp.MinNoticeMinutes)
	assert.Equal(t, domain.DefaultMaxAdvanceDays, resp.MaxAdvanceDays)
	assert.True(t, resp.IsDefault)
}

func TestGetEffective_InvalidActivityID(t *testing.T) {
	svc := newService(&fakePolicyRepo{})

	_, err := svc.GetEffective(context.Background(), 0)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsert_AdminCreatesActivityPolicy(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newService(repo)

	resp, err := svc.Upsert(context.Background(), &models.UpsertPolicyRequest{
		UserID:           adminID,
		ActivityID:       ptr.Ptr(int64(7)),
		MinNoticeMinutes: 90,
		MaxAdvanceDays:   14,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	require.NotNil(t, resp.ActivityID)
	assert.Equal(t, int64(7), *resp.ActivityID)
	assert.Equal(t, 90, resp.MinNoticeMinutes)
}

func TestUpsert_GlobalPolicy(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newService(repo)

	resp, err := svc.Upsert(context.Background(), &models.UpsertPolicyRequest{
		UserID:           adminID,
		MinNoticeMinutes: 60,
		MaxAdvanceDays:   0,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ActivityID)
	require.NotNil(t, repo.stored)
	assert.Nil(t, repo.stored.ActivityID)
}

func TestUpsert_NonAdminDenied(t *testing.T) {
	svc := newService(&fakePolicyRepo{})

	_, err := svc.Upsert(context.Background(), &models.UpsertPolicyRequest{
		UserID:           userID,
		MinNoticeMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpsert_ValidatesBounds(t *testing.T) {
	svc := newService(&fakePolicyRepo{})

	_, err := svc.Upsert(context.Background(), &models.UpsertPolicyRequest{
		UserID:           adminID,
		MinNoticeMinutes: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(context.Background(), &models.UpsertPolicyRequest{
		UserID:           adminID,
		MinNoticeMinutes: 60,
		MaxAdvanceDays:   domain.MaxAdvanceDaysUpperBound + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(context.Background(), &models.UpsertPolicyRequest{
		UserID:           adminID,
		ActivityID:       ptr.Ptr(int64(0)),
		MinNoticeMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_AdminOnly(t *testing.T) {
	repo := &fakePolicyRepo{effective: &domain.ReservationPolicy{ID: 1}}
	svc := newService(repo)

	err := svc.Delete(context.Background(), &models.DeletePolicyRequest{
		UserID:     userID,
		ActivityID: ptr.Ptr(int64(7)),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), &models.DeletePolicyRequest{
		UserID:     adminID,
		ActivityID: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)
	assert.True(t, repo.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newService(&fakePolicyRepo{})

	err := svc.Delete(context.Background(), &models.DeletePolicyRequest{UserID: adminID})

	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
