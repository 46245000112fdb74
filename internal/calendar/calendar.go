package calendar

import "time"

// Layout is the canonical day key format.
const Layout = "2006-01-02"

// Clock abstracts time so day boundaries stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// Key formats t as a day key using t's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// TodayKey returns the day key for the clock's current local date.
func TodayKey(c Clock) string {
	return Key(c.Now())
}

// Parse reads a day key as a local calendar date at midnight.
func Parse(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WeekKey returns the key of the Monday on or before the given day.
// Weeks always start on Monday regardless of time.Weekday's Sunday origin.
// An unparseable key yields "".
func WeekKey(key string) string {
	t, ok := Parse(key)
	if !ok {
		return ""
	}
	diffToMonday := (int(t.Weekday()) + 6) % 7
	return Key(t.AddDate(0, 0, -diffToMonday))
}

// InWeek reports whether key falls in the week anchored at weekKey.
func InWeek(key, weekKey string) bool {
	if key == "" || weekKey == "" {
		return false
	}
	return WeekKey(key) == weekKey
}
