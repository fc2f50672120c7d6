package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	walletRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/wallet"
	"github.com/m04kA/SMC-MentorBooking/pkg/logger"
)

type mockWalletRepo struct{ mock.Mock }

func (m *mockWalletRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCohortRepo struct{ mock.Mock }

func (m *mockCohortRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.CohortMembership, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.CohortMembership), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMentorRepo struct{ mock.Mock }

func (m *mockMentorRepo) GetByID(ctx context.Context, id int64) (*domain.Mentor, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Mentor), args.Error(1)
	}
	return nil, args.Error(1)
}

func newService() (*Service, *mockWalletRepo, *mockCohortRepo, *mockMentorRepo) {
	w, c, m := &mockWalletRepo{}, &mockCohortRepo{}, &mockMentorRepo{}
	return NewService(w, c, m, logger.NewNop()), w, c, m
}

func TestService_EligibleMethods(t *testing.T) {
	svc, wallets, cohorts, _ := newService()
	wallets.On("GetByUserID", mock.Anything, int64(11)).Return(&domain.Wallet{UserID: 11, BalanceCredits: 5}, nil)
	cohorts.On("ListByUser", mock.Anything, int64(11)).Return([]*domain.CohortMembership{{CohortID: 3, IsActive: true}}, nil)

	methods, err := svc.EligibleMethods(context.Background(), 11, 100)
	require.NoError(t, err)
	assert.Equal(t, []domain.PaymentMethod{domain.PaymentCard, domain.PaymentSponsored}, methods)
}

func TestService_Eligibility_NoWallet(t *testing.T) {
	svc, wallets, cohorts, _ := newService()
	wallets.On("GetByUserID", mock.Anything, int64(11)).Return(nil, walletRepo.ErrWalletNotFound)
	cohorts.On("ListByUser", mock.Anything, int64(11)).Return([]*domain.CohortMembership{}, nil)

	e, err := svc.Eligibility(context.Background(), 11, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.BalanceCredits)
	assert.Equal(t, int64(10), e.CostInCredits)
	assert.True(t, e.Allows(domain.PaymentCard))
	assert.False(t, e.Allows(domain.PaymentCredits))
	assert.Nil(t, e.ActiveCohort)
}

func TestService_Eligibility_StoreError(t *testing.T) {
	svc, wallets, _, _ := newService()
	wallets.On("GetByUserID", mock.Anything, int64(11)).Return(nil, errors.New("connection reset"))

	_, err := svc.Eligibility(context.Background(), 11, 100)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Options(t *testing.T) {
	svc, wallets, cohorts, mentors := newService()
	fee := 120.0
	mentors.On("GetByID", mock.Anything, int64(5)).Return(&domain.Mentor{ID: 5, SessionFee: &fee}, nil)
	wallets.On("GetByUserID", mock.Anything, int64(11)).Return(&domain.Wallet{BalanceCredits: 12}, nil)
	cohorts.On("ListByUser", mock.Anything, int64(11)).Return([]*domain.CohortMembership{}, nil)

	opts, err := svc.Options(context.Background(), 11, 5)
	require.NoError(t, err)

	assert.Equal(t, 120.0, opts.Fees.SessionFee)
	assert.Equal(t, 30.0, opts.Fees.PlatformFee)
	assert.Equal(t, 90.0, opts.Fees.MentorReceives)
	assert.Equal(t, int64(12), opts.CostInCredits)
	assert.Equal(t, []domain.PaymentMethod{domain.PaymentCard, domain.PaymentCredits}, opts.Methods)
}

func TestService_Options_MentorNotFound(t *testing.T) {
	svc, _, _, mentors := newService()
	mentors.On("GetByID", mock.Anything, int64(5)).Return(nil, mentorRepo.ErrMentorNotFound)

	_, err := svc.Options(context.Background(), 11, 5)
	assert.ErrorIs(t, err, ErrMentorNotFound)
}
