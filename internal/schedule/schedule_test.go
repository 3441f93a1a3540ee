package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNext(t *testing.T) {
	cases := []struct {
		name  string
		ref   time.Time
		sched string
		want  time.Time
	}{
		{"monthly", date(2024, time.March, 15), "monthly", date(2024, time.April, 15)},
		{"quarterly", date(2024, time.March, 15), "quarterly", date(2024, time.June, 15)},
		{"annually", date(2024, time.March, 15), "annually", date(2025, time.March, 15)},
		{"one_time falls back to monthly", date(2024, time.March, 15), "one_time", date(2024, time.April, 15)},
		{"unknown falls back to monthly", date(2024, time.March, 15), "weekly", date(2024, time.April, 15)},
		{"empty falls back to monthly", date(2024, time.March, 15), "", date(2024, time.April, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(tc.ref, tc.sched)
			if !got.Equal(tc.want) {
				t.Fatalf("Next(%v, %q) = %v, want %v", tc.ref, tc.sched, got, tc.want)
			}
		})
	}
}

func TestNextMonthEndOverflow(t *testing.T) {
	// AddDate normalizes forward rather than clamping to month end.
	got := Next(date(2023, time.January, 31), "monthly")
	if want := date(2023, time.March, 3); !got.Equal(want) {
		t.Fatalf("Jan 31 + 1 month = %v, want %v", got, want)
	}
	got = Next(date(2024, time.January, 31), "monthly")
	if want := date(2024, time.March, 2); !got.Equal(want) {
		t.Fatalf("Jan 31 + 1 month (leap year) = %v, want %v", got, want)
	}
}

func TestNextAnnuallyLeapDay(t *testing.T) {
	got := Next(date(2024, time.February, 29), "annually")
	if want := date(2025, time.March, 1); !got.Equal(want) {
		t.Fatalf("Feb 29 + 1 year = %v, want %v", got, want)
	}
}
