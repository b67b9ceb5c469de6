package fee_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/latefee/fee"
	"github.com/warp/latefee/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// March 2025: Fri 7, Sat 8, Sun 9, Mon 10, Tue 11, Wed 12.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func rate(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func noonToTen() schedule.Day {
	return schedule.Open(12, 0, 22, 0)
}

// Friday and Monday open 12:00-22:00, every other day closed.
func friMonWeek() schedule.Weekly {
	return schedule.Every(schedule.Closed()).
		With(time.Friday, noonToTen()).
		With(time.Monday, noonToTen())
}

func assertFee(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// =============================================================================
// REFERENCE SCENARIOS
// =============================================================================

func TestCompute_SameDay_NoClosingCrossed(t *testing.T) {
	// GIVEN: Monday open 12:00-22:00, rate 5
	// WHEN: Due Monday 13:00, returned Monday 15:30
	// THEN: Ticks at 14:00 and 15:00 are charged (13:00 coincides with due) = 10

	got := fee.Compute(at(10, 13, 0), at(10, 15, 30), rate(5), friMonWeek())

	assertFee(t, "10", got)
}

func TestCompute_OvernightAndWeekendCrossing(t *testing.T) {
	// GIVEN: Friday and Monday open 12:00-22:00, weekend closed, rate 5
	// WHEN: Due Friday 19:00, returned Monday 13:00
	// THEN: Friday 20/21/22 + one night = 20, weekend nothing, Monday 12/13 = 10

	due, ret := at(7, 19, 0), at(10, 13, 0)

	charges := fee.Accrue(due, ret, rate(5), friMonWeek())

	require.Len(t, charges, 6)
	wantAt := []time.Time{at(7, 20, 0), at(7, 21, 0), at(7, 22, 0), at(7, 22, 0), at(10, 12, 0), at(10, 13, 0)}
	wantKind := []fee.ChargeKind{fee.ChargeHourly, fee.ChargeHourly, fee.ChargeHourly, fee.ChargeOvernight, fee.ChargeHourly, fee.ChargeHourly}
	for i, c := range charges {
		assert.True(t, wantAt[i].Equal(c.At), "charge %d at %v, want %v", i, c.At, wantAt[i])
		assert.Equal(t, wantKind[i], c.Kind, "charge %d kind", i)
	}
	assertFee(t, "30", fee.Compute(due, ret, rate(5), friMonWeek()))
}

func TestCompute_ImmediateReturn_IsFree(t *testing.T) {
	// GIVEN: Any schedule and rate
	// WHEN: Returned exactly at the due instant
	// THEN: Fee is zero

	due := at(7, 19, 0)
	weeks := []schedule.Weekly{friMonWeek(), schedule.Every(schedule.Closed()), schedule.Every(noonToTen())}

	for _, week := range weeks {
		assertFee(t, "0", fee.Compute(due, due, rate(5), week))
		assertFee(t, "0", fee.Compute(due, due, rate(1000), week))
	}
}

func TestCompute_AllWeekClosed_OnlyNightsAccrue(t *testing.T) {
	// GIVEN: Every day closed, rate 5
	// WHEN: Due Monday 10:00, returned Wednesday 10:00
	// THEN: Two nights out, no hourly charges = 10

	due, ret := at(10, 10, 0), at(12, 10, 0)

	charges := fee.Accrue(due, ret, rate(5), schedule.Every(schedule.Closed()))

	require.Len(t, charges, 2)
	for _, c := range charges {
		assert.Equal(t, fee.ChargeOvernight, c.Kind)
	}
	assertFee(t, "10", fee.Compute(due, ret, rate(5), schedule.Every(schedule.Closed())))
}

func TestCompute_AllWeekClosed_LongSpanTerminates(t *testing.T) {
	// GIVEN: Every day closed
	// WHEN: Item is out for ten years
	// THEN: Walk terminates with one night per midnight crossed

	due := time.Date(2015, time.January, 1, 10, 0, 0, 0, time.UTC)
	ret := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	nights := int(ret.Sub(due).Hours() / 24)

	got := fee.Compute(due, ret, rate(1), schedule.Every(schedule.Closed()))

	assertFee(t, decimal.NewFromInt(int64(nights)).String(), got)
}

// =============================================================================
// BOUNDARY RULES
// =============================================================================

func TestCompute_TickOnClose_IsCharged_ButNoOvernight(t *testing.T) {
	// GIVEN: Monday open 12:00-22:00
	// WHEN: Due 19:00, returned exactly at 22:00
	// THEN: Ticks 20/21/22 charged (inclusive), no night (return not after close)

	got := fee.Compute(at(10, 19, 0), at(10, 22, 0), rate(5), friMonWeek())

	assertFee(t, "15", got)
}

func TestCompute_ReturnOneMinuteAfterClose_AddsOvernight(t *testing.T) {
	// GIVEN: Monday open 12:00-22:00
	// WHEN: Due 19:00, returned 22:01
	// THEN: Three ticks plus one night

	got := fee.Compute(at(10, 19, 0), at(10, 22, 1), rate(5), friMonWeek())

	assertFee(t, "20", got)
}

func TestCompute_DueAfterClose_NextMorningReturn_IsFree(t *testing.T) {
	// GIVEN: Open every day 12:00-22:00
	// WHEN: Due Monday 22:30 (already closed), returned Tuesday 11:00 (not open yet)
	// THEN: No tick and no night: the item was never out during open hours

	got := fee.Compute(at(10, 22, 30), at(11, 11, 0), rate(5), schedule.Every(noonToTen()))

	assertFee(t, "0", got)
}

func TestCompute_DueBeforeOpen_TicksStartAtOpen(t *testing.T) {
	// GIVEN: Monday open 12:00-22:00
	// WHEN: Due 09:15, returned 14:00
	// THEN: Ticks at 12:15 and 13:15 (aligned to :15, at or after open)

	charges := fee.Accrue(at(10, 9, 15), at(10, 14, 0), rate(5), friMonWeek())

	require.Len(t, charges, 2)
	assert.True(t, at(10, 12, 15).Equal(charges[0].At))
	assert.True(t, at(10, 13, 15).Equal(charges[1].At))
}

func TestCompute_TicksAlignToDueMinuteAcrossDays(t *testing.T) {
	// GIVEN: Open every day 12:00-22:00
	// WHEN: Due Monday 21:15, returned Tuesday 13:20
	// THEN: Monday: 22:15 is past close (no tick) but one night;
	//       Tuesday: ticks at 12:15 and 13:15

	charges := fee.Accrue(at(10, 21, 15), at(11, 13, 20), rate(5), schedule.Every(noonToTen()))

	require.Len(t, charges, 3)
	assert.Equal(t, fee.ChargeOvernight, charges[0].Kind)
	assert.True(t, at(11, 12, 15).Equal(charges[1].At))
	assert.True(t, at(11, 13, 15).Equal(charges[2].At))
}

func TestCompute_AlignedTickBeforeOpen_RollsForward(t *testing.T) {
	// GIVEN: Open every day 12:30-22:00
	// WHEN: Due Monday 22:15 (after close), returned Tuesday 14:00
	// THEN: Tuesday's 12:15 boundary precedes open, so the first tick is 13:15

	charges := fee.Accrue(at(10, 22, 15), at(11, 14, 0), rate(5), schedule.Every(schedule.Open(12, 30, 22, 0)))

	require.Len(t, charges, 1)
	assert.True(t, at(11, 13, 15).Equal(charges[0].At))
}

func TestCompute_SecondsAreIgnored(t *testing.T) {
	// GIVEN: The same-day Monday case with stray seconds on both instants
	// THEN: Same fee as the minute-exact scenario

	due := at(10, 13, 0).Add(45 * time.Second)
	ret := at(10, 15, 30).Add(10*time.Second + 5*time.Millisecond)

	assertFee(t, "10", fee.Compute(due, ret, rate(5), friMonWeek()))
}

func TestCompute_ReturnInOtherLocation_IsConvertedToDueLocation(t *testing.T) {
	// GIVEN: Due expressed in UTC, return expressed in UTC+2
	// THEN: Same fee as the same-day Monday case

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	ret := at(10, 15, 30).In(plus2)

	assertFee(t, "10", fee.Compute(at(10, 13, 0), ret, rate(5), friMonWeek()))
}

func TestCompute_NonPositiveRate_YieldsZero(t *testing.T) {
	due, ret := at(7, 19, 0), at(10, 13, 0)

	assertFee(t, "0", fee.Compute(due, ret, decimal.Zero, friMonWeek()))
	assertFee(t, "0", fee.Compute(due, ret, rate(-5), friMonWeek()))
}

func TestCompute_MalformedDay_TreatedAsClosed(t *testing.T) {
	// GIVEN: Monday configured with close before open
	// THEN: Monday behaves exactly like a closed Monday

	broken := friMonWeek().With(time.Monday, schedule.Open(22, 0, 12, 0))
	closed := friMonWeek().With(time.Monday, schedule.Closed())
	due, ret := at(7, 19, 0), at(11, 13, 0)

	assert.True(t, fee.Compute(due, ret, rate(5), closed).Equal(fee.Compute(due, ret, rate(5), broken)))
}

func TestCompute_DaylightSavingStart(t *testing.T) {
	// GIVEN: New York, open every day 12:00-22:00; clocks spring forward Sunday March 9
	// WHEN: Due Saturday 19:00, returned Monday 13:00
	// THEN: Sat 3 ticks + night, Sun 11 ticks + night, Mon 2 ticks = 18 units

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	due := time.Date(2025, time.March, 8, 19, 0, 0, 0, ny)
	ret := time.Date(2025, time.March, 10, 13, 0, 0, 0, ny)

	charges := fee.Accrue(due, ret, rate(1), schedule.Every(noonToTen()))

	require.Len(t, charges, 18)
	for _, c := range charges {
		if c.Kind == fee.ChargeHourly {
			assert.Equal(t, 0, c.At.Minute(), "tick %v drifted off the due minute", c.At)
		}
	}
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestCompute_NeverChargesWhenNotLate(t *testing.T) {
	weeks := []schedule.Weekly{friMonWeek(), schedule.Every(schedule.Closed()), schedule.Every(noonToTen())}
	due := at(10, 13, 0)

	for _, week := range weeks {
		for _, back := range []time.Duration{0, time.Minute, time.Hour, 50 * time.Hour} {
			assertFee(t, "0", fee.Compute(due, due.Add(-back), rate(5), week))
		}
	}
}

func TestCompute_MonotonicInReturn(t *testing.T) {
	// GIVEN: Fixed due, rate and schedule
	// WHEN: Return moves forward in 7-minute steps over four days
	// THEN: Fee never decreases

	weeks := map[string]schedule.Weekly{
		"fri_mon":    friMonWeek(),
		"all_closed": schedule.Every(schedule.Closed()),
		"every_day":  schedule.Every(schedule.Open(9, 30, 17, 45)),
	}
	due := at(7, 19, 23)

	for name, week := range weeks {
		t.Run(name, func(t *testing.T) {
			prev := decimal.Zero
			for ret := due.Add(-time.Hour); ret.Before(due.Add(96 * time.Hour)); ret = ret.Add(7 * time.Minute) {
				got := fee.Compute(due, ret, rate(5), week)
				require.False(t, got.LessThan(prev), "fee dropped from %s to %s at %v", prev, got, ret)
				prev = got
			}
		})
	}
}

func TestCompute_ScalesWithRate(t *testing.T) {
	spans := [][2]time.Time{
		{at(10, 13, 0), at(10, 15, 30)},
		{at(7, 19, 0), at(10, 13, 0)},
		{at(7, 8, 45), at(12, 23, 59)},
	}
	base := decimal.RequireFromString("1.25")

	for _, k := range []string{"2", "3", "0.5", "7.75"} {
		scale := decimal.RequireFromString(k)
		for _, s := range spans {
			want := fee.Compute(s[0], s[1], base, friMonWeek()).Mul(scale)
			got := fee.Compute(s[0], s[1], base.Mul(scale), friMonWeek())
			assert.True(t, want.Equal(got), "k=%s span=%v: want %s, got %s", k, s, want, got)
		}
	}
}

func TestCompute_EqualsSumOfAccrue(t *testing.T) {
	due, ret := at(7, 8, 45), at(12, 23, 59)

	charges := fee.Accrue(due, ret, rate(3), friMonWeek())
	sum := decimal.Zero
	for _, c := range charges {
		sum = sum.Add(c.Amount)
	}

	assert.True(t, sum.Equal(fee.Compute(due, ret, rate(3), friMonWeek())))
}
