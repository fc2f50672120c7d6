package finalize_booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	walletRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/wallet"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/paymentgateway"
)

// memStore in-memory stand-in for every repository the finalizer touches
type memStore struct {
	mu        sync.Mutex
	mentors   map[int64]*domain.Mentor
	rules     []*domain.WeeklyAvailabilityRule
	overrides []*domain.DateOverride
	sessions  []*domain.Session
	wallets   map[int64]int64
	cohorts   map[int64][]*domain.CohortMembership
	payments  []*domain.SessionPayment
	nextID    int64

	deductErr  error
	paymentErr error
}

type snapshot struct {
	sessions []*domain.Session
	wallets  map[int64]int64
	payments []*domain.SessionPayment
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		mentors: map[int64]*domain.Mentor{},
		wallets: map[int64]int64{},
		cohorts: map[int64][]*domain.CohortMembership{},
	}
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallets := make(map[int64]int64, len(s.wallets))
	for k, v := range s.wallets {
		wallets[k] = v
	}
	return snapshot{
		sessions: append([]*domain.Session(nil), s.sessions...),
		wallets:  wallets,
		payments: append([]*domain.SessionPayment(nil), s.payments...),
		nextID:   s.nextID,
	}
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = snap.sessions
	s.wallets = snap.wallets
	s.payments = snap.payments
	s.nextID = snap.nextID
}

func (s *memStore) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) balance(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[userID]
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentors[id]
	if !ok {
		return nil, mentorRepo.ErrMentorNotFound
	}
	return m, nil
}

func (s *memStore) GetWeeklyRules(_ context.Context, mentorID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*domain.WeeklyAvailabilityRule
	for _, r := range s.rules {
		if r.MentorID == mentorID {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *memStore) GetOverrides(_ context.Context, mentorID int64, from, to time.Time) ([]*domain.DateOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*domain.DateOverride
	for _, o := range s.overrides {
		if o.MentorID == mentorID && !o.Date.Before(from) && !o.Date.After(to) {
			res = append(res, o)
		}
	}
	return res, nil
}

func (s *memStore) ListActiveByMentor(_ context.Context, mentorID int64, from, to time.Time) ([]*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*domain.Session
	for _, sess := range s.sessions {
		if sess.MentorID == mentorID && sess.IsActive() && !sess.ScheduledAt.Before(from) && sess.ScheduledAt.Before(to) {
			res = append(res, sess)
		}
	}
	return res, nil
}

func (s *memStore) Create(_ context.Context, sess *domain.Session) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := *sess
	c.ID = s.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.sessions = append(s.sessions, &c)
	return &c, nil
}

func (s *memStore) GetByUserID(_ context.Context, userID int64) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.wallets[userID]
	if !ok {
		return nil, walletRepo.ErrWalletNotFound
	}
	return &domain.Wallet{UserID: userID, BalanceCredits: b}, nil
}

func (s *memStore) DeductCredits(_ context.Context, userID int64, credits int64, _ int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deductErr != nil {
		return 0, s.deductErr
	}
	b := s.wallets[userID]
	if b < credits {
		return 0, walletRepo.ErrInsufficientCredits
	}
	s.wallets[userID] = b - credits
	return b - credits, nil
}

func (s *memStore) ListByUser(_ context.Context, userID int64) ([]*domain.CohortMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cohorts[userID], nil
}

// paymentStore separates payment Create from session Create on the same store
type paymentStore struct{ *memStore }

func (p paymentStore) Create(_ context.Context, pay *domain.SessionPayment) (*domain.SessionPayment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paymentErr != nil {
		return nil, p.paymentErr
	}
	c := *pay
	c.ID = int64(len(p.payments) + 1)
	p.payments = append(p.payments, &c)
	return &c, nil
}

// memTxManager serializes transactions and rolls the store back on error
type memTxManager struct {
	store     *memStore
	lock      sync.Mutex
	commitErr error
}

func (m *memTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	snap := m.store.snapshot()
	err := fn(ctx)
	if err == nil && m.commitErr != nil {
		err = m.commitErr
	}
	if err != nil {
		m.store.restore(snap)
	}
	return err
}

// fakeGateway повторяет идемпотентность Stripe: ключ запоминает параметры первого
// запроса и отдает тот же ответ, другие параметры с тем же ключом дают ошибку.
type fakeGateway struct {
	mu       sync.Mutex
	charges  []paymentgateway.ChargeRequest
	refunds  []string
	err      error
	declined map[string]bool // токены отклоненных карт
	byKey    map[string]paymentgateway.ChargeRequest
}

func (g *fakeGateway) Charge(_ context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}

	if g.byKey == nil {
		g.byKey = make(map[string]paymentgateway.ChargeRequest)
	}
	if prev, ok := g.byKey[req.IdempotencyKey]; ok {
		if prev.CardToken != req.CardToken || prev.Amount != req.Amount {
			return nil, paymentgateway.ErrIdempotencyConflict
		}
	} else {
		g.byKey[req.IdempotencyKey] = req
		g.charges = append(g.charges, req)
	}

	if g.declined[req.CardToken] {
		return nil, paymentgateway.ErrDeclined
	}
	return &paymentgateway.ChargeResult{ID: "pi_" + req.IdempotencyKey, Status: "succeeded"}, nil
}

func (g *fakeGateway) Refund(_ context.Context, chargeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, chargeID)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifier.SessionBooked
	err  error
}

func (n *fakeNotifier) SessionBooked(_ context.Context, p notifier.SessionBooked) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, p)
	return nil
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (f *fakeMetrics) RecordFinalize(method, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		f.results = map[string]int{}
	}
	f.results[method+"/"+result]++
}

func (f *fakeMetrics) count(method, result string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[method+"/"+result]
}

var errBoom = errors.New("boom")
