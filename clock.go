package folio

import "time"

// Clock supplies the current time to a render. Sites implement it to control
// what {{ .Year }} shows.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedYear returns a Clock that always reports midnight UTC on January 1st
// of year.
func FixedYear(year int) Clock {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return ClockFunc(func() time.Time { return t })
}

func currentYear(site Site) int {
	if clock, ok := site.(Clock); ok {
		return clock.Now().Year()
	}
	return time.Now().Year()
}
