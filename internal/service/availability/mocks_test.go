package availability

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

type mockMentorRepo struct{ mock.Mock }

func (m *mockMentorRepo) GetByID(ctx context.Context, id int64) (*domain.Mentor, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Mentor), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAvailabilityRepo struct{ mock.Mock }

func (m *mockAvailabilityRepo) GetWeeklyRules(ctx context.Context, mentorID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	args := m.Called(ctx, mentorID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.WeeklyAvailabilityRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAvailabilityRepo) GetOverrides(ctx context.Context, mentorID int64, from, to time.Time) ([]*domain.DateOverride, error) {
	args := m.Called(ctx, mentorID, from, to)
	if v := args.Get(0); v != nil {
		return v.([]*domain.DateOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) ListActiveByMentor(ctx context.Context, mentorID int64, from, to time.Time) ([]*domain.Session, error) {
	args := m.Called(ctx, mentorID, from, to)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type retryCounter struct{ calls map[string]int }

func (r *retryCounter) RecordReadRetry(operation string) {
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[operation]++
}
