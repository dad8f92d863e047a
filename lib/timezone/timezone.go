package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
}

// listings are published on korean time, so "this week" has to be computed
// there regardless of where the process runs
func Now() time.Time {
	return time.Now().In(Location)
}

// MonthWeek returns the week of the month `t` falls in, weeks are counted in
// 7 day blocks from the first of the month, so days 29-31 belong to week 5.
func MonthWeek(t time.Time) (year int, month time.Month, week int) {
	t = t.In(Location)
	return t.Year(), t.Month(), (t.Day()-1)/7 + 1
}

// WeekStart is the first day of the given week of the month, at midnight in
// Location.
func WeekStart(year int, month time.Month, week int) time.Time {
	return time.Date(year, month, (week-1)*7+1, 0, 0, 0, 0, Location)
}
