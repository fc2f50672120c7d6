package draft

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

func sampleDraft() *domain.BookingDraft {
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	slot := types.MustTimeString("17:30")
	return &domain.BookingDraft{
		ID:          "3f1c2a9e-0000-4000-8000-000000000001",
		MentorID:    5,
		MenteeID:    11,
		Step:        domain.StepEnteringDetails,
		Date:        &date,
		TimeSlot:    &slot,
		SessionType: "professional",
		CreatedAt:   date,
		UpdatedAt:   date,
	}
}

func TestSave(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := sampleDraft()

	data, err := json.Marshal(d)
	require.NoError(t, err)
	mock.ExpectSet("booking_flow:"+d.ID, string(data), 30*time.Minute).SetVal("OK")

	err = NewStore(rdb, 30*time.Minute).Save(context.Background(), d)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := sampleDraft()

	data, err := json.Marshal(d)
	require.NoError(t, err)
	mock.ExpectSetXX("booking_flow:"+d.ID, string(data), 30*time.Minute).SetVal(true)

	err = NewStore(rdb, 30*time.Minute).Replace(context.Background(), d)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace_DeletedDraftNotRecreated(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := sampleDraft()

	data, err := json.Marshal(d)
	require.NoError(t, err)
	mock.ExpectSetXX("booking_flow:"+d.ID, string(data), 30*time.Minute).SetVal(false)

	err = NewStore(rdb, 30*time.Minute).Replace(context.Background(), d)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := sampleDraft()

	data, err := json.Marshal(d)
	require.NoError(t, err)
	mock.ExpectGet("booking_flow:" + d.ID).SetVal(string(data))

	got, err := NewStore(rdb, time.Minute).Get(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, d.Step, got.Step)
	require.NotNil(t, got.TimeSlot)
	assert.Equal(t, "17:30", got.TimeSlot.String())
	require.NotNil(t, got.Date)
	assert.True(t, got.Date.Equal(*d.Date))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Expired(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("booking_flow:missing").RedisNil()

	_, err := NewStore(rdb, time.Minute).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestGet_RedisDown(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("booking_flow:x").SetErr(errors.New("dial tcp: connection refused"))

	_, err := NewStore(rdb, time.Minute).Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRedis)
}

func TestDelete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel("booking_flow:x").SetVal(0)

	err := NewStore(rdb, time.Minute).Delete(context.Background(), "x")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
