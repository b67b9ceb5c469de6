package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/latefee/schedule"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    schedule.Clock
		wantErr bool
	}{
		{in: "12:00", want: schedule.At(12, 0)},
		{in: "9:05", want: schedule.At(9, 5)},
		{in: " 23:59 ", want: schedule.At(23, 59)},
		{in: "00:00", want: schedule.At(0, 0)},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "1:2:3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := schedule.ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, schedule.ErrInvalidClock))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClock_On(t *testing.T) {
	loc := time.FixedZone("X", -5*60*60)
	day := time.Date(2025, time.March, 10, 3, 4, 5, 6, loc)

	got := schedule.At(22, 30).On(day)

	assert.Equal(t, time.Date(2025, time.March, 10, 22, 30, 0, 0, loc), got)
	assert.Equal(t, "22:30", schedule.At(22, 30).String())
}

func TestWeekly_WindowFor(t *testing.T) {
	week := schedule.Every(schedule.Closed()).
		With(time.Monday, schedule.Open(12, 0, 22, 0)).
		With(time.Tuesday, schedule.Open(22, 0, 12, 0)). // close before open
		With(time.Wednesday, schedule.Open(9, 0, 9, 0)). // empty window
		With(time.Thursday, schedule.Open(9, 0, 25, 0)) // out of range

	w, ok := week.WindowFor(time.Monday)
	require.True(t, ok)
	assert.Equal(t, schedule.At(12, 0), w.Open)
	assert.Equal(t, schedule.At(22, 0), w.Close)

	for _, day := range []time.Weekday{time.Sunday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday} {
		_, ok := week.WindowFor(day)
		assert.False(t, ok, "%s should be closed", day)
	}

	_, ok = week.WindowFor(time.Weekday(9))
	assert.False(t, ok)
}

func TestWeekly_AllClosed(t *testing.T) {
	assert.True(t, schedule.Every(schedule.Closed()).AllClosed())
	assert.True(t, schedule.Every(schedule.Open(18, 0, 8, 0)).AllClosed(), "malformed windows count as closed")
	assert.False(t, schedule.Every(schedule.Closed()).With(time.Sunday, schedule.Open(10, 0, 11, 0)).AllClosed())
}

func TestWeekly_Normalize(t *testing.T) {
	week := schedule.Every(schedule.Open(9, 0, 17, 0)).
		With(time.Saturday, schedule.Open(17, 0, 9, 0)).
		With(time.Sunday, schedule.Closed())

	normalized, replaced := week.Normalize()

	assert.Equal(t, []time.Weekday{time.Saturday}, replaced)
	assert.Equal(t, schedule.Closed(), normalized[time.Saturday])
	assert.Equal(t, week[time.Monday], normalized[time.Monday])
	assert.True(t, week[time.Saturday].IsOpen, "original is not modified")
}

func TestWeekly_With_IgnoresInvalidWeekday(t *testing.T) {
	week := schedule.Every(schedule.Closed())

	assert.Equal(t, week, week.With(time.Weekday(-1), schedule.Open(9, 0, 17, 0)))
}

func TestWindow_Bounds(t *testing.T) {
	w := schedule.Window{Open: schedule.At(12, 0), Close: schedule.At(22, 0)}
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	open, closes := w.Bounds(day)

	assert.Equal(t, time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), open)
	assert.Equal(t, time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC), closes)
}
