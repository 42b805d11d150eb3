package vo

import (
	"fmt"
	"time"
)

// Date is a calendar date without time of day or location, in the proleptic
// Gregorian calendar. The zero Date is not a valid date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// Date limits.
const (
	MinYear = 1
	MaxYear = 9999
)

const (
	dateLayout = "2006-01-02"
	// ordinalEpoch is the ordinal of 1970-01-01, counting 0001-01-01 as 1.
	ordinalEpoch = 719163
	nsPerDay     = int64(24 * time.Hour)
)

// NewDate returns the date year-month-day. It fails for days that do not
// exist and years outside [MinYear, MaxYear].
func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < MinYear || year > MaxYear {
		return Date{}, fmt.Errorf("year %d is out of range", year)
	}
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("month must be in 1..12")
	}
	if day < 1 || day > daysIn(year, month) {
		return Date{}, fmt.Errorf("day is out of range for month")
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustDate is like NewDate but panics on error.
func MustDate(year int, month time.Month, day int) Date {
	return Must(NewDate(year, month, day))
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// DateFromOrdinal returns the date with the given proleptic Gregorian
// ordinal, where 0001-01-01 is 1.
func DateFromOrdinal(n int) (Date, error) {
	if n < 1 || n > 3652059 {
		return Date{}, fmt.Errorf("ordinal %d is out of range", n)
	}
	y, m, d := civilFromDays(int64(n - ordinalEpoch))
	return Date{year: y, month: m, day: d}, nil
}

// ParseDate reads an ISO 8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid isoformat string: %q", s)
	}
	return NewDate(t.Date())
}

// Year returns the year.
func (d Date) Year() int { return d.year }

// Month returns the month.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of the month.
func (d Date) Day() int { return d.day }

// YearDay returns the day of the year, in [1, 366].
func (d Date) YearDay() int {
	return d.Time().YearDay()
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// ISOWeek returns the ISO 8601 year and week number.
func (d Date) ISOWeek() (year, week int) {
	return d.Time().ISOWeek()
}

// Ordinal returns the proleptic Gregorian ordinal, where 0001-01-01 is 1.
func (d Date) Ordinal() int {
	return int(daysFromCivil(d.year, d.month, d.day)) + ordinalEpoch
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch a, b := d.Ordinal(), other.Ordinal(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether d and other are the same date.
func (d Date) Equal(other Date) bool { return d == other }

// Before reports whether d is before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) (Date, error) {
	return DateFromOrdinal(d.Ordinal() + n)
}

// Add returns the date after d by the whole days in dur. The remainder
// smaller than a day is discarded, rounding toward negative infinity.
func (d Date) Add(dur time.Duration) (Date, error) {
	days := int64(dur) / nsPerDay
	if int64(dur)%nsPerDay < 0 {
		days--
	}
	return d.AddDays(int(days))
}

// Sub returns d - other as a whole number of days.
func (d Date) Sub(other Date) (time.Duration, error) {
	days := int64(d.Ordinal() - other.Ordinal())
	if days > int64(maxDuration/time.Duration(nsPerDay)) || days < int64(minDuration/time.Duration(nsPerDay)) {
		return 0, fmt.Errorf("date difference of %d days overflows time.Duration", days)
	}
	return time.Duration(days * nsPerDay), nil
}

// DaysSince returns the number of days from other to d.
func (d Date) DaysSince(other Date) int {
	return d.Ordinal() - other.Ordinal()
}

// Time returns midnight of d in UTC.
func (d Date) Time() time.Time {
	return d.In(time.UTC)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// Format formats the date with a time package layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String returns the ISO 8601 form.
func (d Date) String() string {
	if d.IsZero() {
		return "0000-00-00"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

const (
	maxDuration = time.Duration(1<<63 - 1)
	minDuration = time.Duration(-1 << 63)
)

func daysIn(year int, month time.Month) int {
	if month == time.February {
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 31 - int((month-1)%7%2)
}

// daysFromCivil returns the number of days from 1970-01-01 to y-m-d.
func daysFromCivil(y int, m time.Month, d int) int64 {
	year := int64(y)
	if m <= time.February {
		year--
	}
	era := year / 400
	if year < 0 && year%400 != 0 {
		era--
	}
	yoe := year - era*400
	mp := (int64(m) + 9) % 12
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (int, time.Month, int) {
	z += 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return int(y), time.Month(m), int(d)
}
