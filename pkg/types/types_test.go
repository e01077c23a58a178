package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []string{"00:00", "09:30", "16:30", "23:59"}
	for _, s := range valid {
		_, err := NewTimeStringFromString(s)
		assert.NoError(t, err, s)
	}

	invalid := []string{"", "9:00", "24:00", "12:60", "12-30", "12:3a", "12:300", "1230"}
	for _, s := range invalid {
		_, err := NewTimeStringFromString(s)
		assert.ErrorIs(t, err, ErrInvalidTimeString, s)
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	ts := TimeString("10:00")
	assert.Equal(t, 600, ts.Minutes())

	next, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), next)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.True(t, TimeString("17:00").IsAfter("16:30"))
	assert.True(t, TimeString("13:00").InRange("13:00", "15:00"))
	assert.False(t, TimeString("15:00").InRange("13:00", "15:00"))
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:30"), ts)

	assert.Error(t, ts.Scan(42))

	v, err := TimeString("09:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00", v)
}

func TestDateString(t *testing.T) {
	d, err := NewDateStringFromString("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, DateString("2025-06-03"), d.AddDays(1))
	assert.Equal(t, DateString("2025-07-01"), DateString("2025-06-30").AddDays(1))
	assert.True(t, d.Before("2025-06-10"))
	assert.True(t, d.Between("2025-06-02", "2025-06-02"))
	assert.False(t, d.Between("2025-06-03", "2025-06-05"))

	for _, s := range []string{"", "2025-6-2", "2025/06/02", "2025-02-30", "02-06-2025"} {
		_, err := NewDateStringFromString(s)
		assert.ErrorIs(t, err, ErrInvalidDateString, s)
	}
}

func TestDateString_Scan(t *testing.T) {
	var d DateString

	require.NoError(t, d.Scan(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DateString("2025-06-02"), d)

	require.NoError(t, d.Scan("2025-06-03T00:00:00Z"))
	assert.Equal(t, DateString("2025-06-03"), d)

	assert.Error(t, d.Scan(3.14))
}
