package bookingflow

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	draftStore "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/draft"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	"github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

type mockValidator struct{ mock.Mock }

func (m *mockValidator) ValidateDate(ctx context.Context, mentorID int64, date time.Time) error {
	return m.Called(ctx, mentorID, date).Error(0)
}

func (m *mockValidator) ValidateSlot(ctx context.Context, mentorID int64, date time.Time, slot types.TimeString) (domain.TimeSlot, error) {
	args := m.Called(ctx, mentorID, date, slot)
	if fn, ok := args.Get(0).(func(context.Context, int64, time.Time, types.TimeString) domain.TimeSlot); ok {
		return fn(ctx, mentorID, date, slot), args.Error(1)
	}
	return args.Get(0).(domain.TimeSlot), args.Error(1)
}

type mockFinalizer struct{ mock.Mock }

func (m *mockFinalizer) Execute(ctx context.Context, req *finalize_booking.Request) (*finalize_booking.Response, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*finalize_booking.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type memDrafts struct {
	mu      sync.Mutex
	drafts  map[string]*domain.BookingDraft
	saveErr error
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: map[string]*domain.BookingDraft{}}
}

func (s *memDrafts) Save(_ context.Context, d *domain.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *memDrafts) Replace(_ context.Context, d *domain.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.drafts[d.ID]; !ok {
		return draftStore.ErrDraftNotFound
	}
	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *memDrafts) Get(_ context.Context, id string) (*domain.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, draftStore.ErrDraftNotFound
	}
	return d.Clone(), nil
}

func (s *memDrafts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

type mentorsStub map[int64]*domain.Mentor

func (m mentorsStub) GetByID(_ context.Context, id int64) (*domain.Mentor, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	return nil, mentorRepo.ErrMentorNotFound
}

type transitionLog struct{ pairs []string }

func (t *transitionLog) RecordTransition(from, to string) {
	t.pairs = append(t.pairs, from+"->"+to)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
