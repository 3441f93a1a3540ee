// Package schedule computes loan repayment cadence dates.
package schedule

import "time"

// Next advances ref by exactly one schedule period: one month for monthly,
// three months for quarterly, one year for annually. Unrecognized schedules
// (including one_time) fall back to one month.
//
// Addition is calendar-aware via time.Time.AddDate, which normalizes
// day-of-month overflow forward: Jan 31 + 1 month yields Mar 3 (Mar 2 in
// leap years). That convention is intentional and relied on by tests.
func Next(ref time.Time, sched string) time.Time {
	switch sched {
	case "quarterly":
		return ref.AddDate(0, 3, 0)
	case "annually":
		return ref.AddDate(1, 0, 0)
	default:
		return ref.AddDate(0, 1, 0)
	}
}
