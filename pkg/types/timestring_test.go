package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("17:30")
	require.NoError(t, err)
	assert.Equal(t, "17:30", ts.String())

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("5pm")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := MustTimeString("17:45")

	next, err := ts.AddMinutes(15)
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), next)

	_, err = MustTimeString("23:50").AddMinutes(15)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:00")
	b := MustTimeString("09:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsBefore(a))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, loc)

	at, err := MustTimeString("17:30").On(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 17, 30, 0, 0, loc), at)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("18:15:00"))
	assert.Equal(t, TimeString("18:15"), ts)

	require.NoError(t, ts.Scan([]byte("09:05:00")))
	assert.Equal(t, TimeString("09:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Slot TimeString `json:"slot"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"slot":"17:45"}`), &payload))
	assert.Equal(t, TimeString("17:45"), payload.Slot)

	assert.Error(t, json.Unmarshal([]byte(`{"slot":"17h45"}`), &payload))
}
