// Package priority computes the urgency score stored on every task.
package priority

import "time"

const day = 24 * time.Hour

// Score returns 100*weight/(days+1), where days is the number of whole days
// until due, clamped at zero for overdue tasks. A task without a due date
// scores zero. Weight is not validated.
func Score(weight int, due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	return 100 * weight / (DaysUntil(*due, now) + 1)
}

// DaysUntil floors the distance from now to due in whole days and never
// returns a negative value.
func DaysUntil(due, now time.Time) int {
	d := due.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}
