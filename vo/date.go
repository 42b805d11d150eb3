package vo

import (
	"math"
	"time"
)

// DateClass is a class of calendar date values.
type DateClass struct {
	*Class[Date]
}

// DateValue is a value of a DateClass.
type DateValue struct {
	Value[Date]
}

// DefineDate creates a Date class.
func DefineDate(name string, validator Validator[Date], opts ...Option) (*DateClass, error) {
	tr := defaultTraits[Date]()
	tr.clone = func(d Date) Date { return d }
	tr.deepClone = tr.clone
	tr.truthy = func(Date) bool { return true }
	c, err := define(name, validator, DateKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &DateClass{Class: c}, nil
}

// New validates raw and wraps the result.
func (c *DateClass) New(raw Date) (DateValue, error) {
	v, err := c.Class.New(raw)
	return DateValue{Value: v}, err
}

// MustNew is like New but panics on error.
func (c *DateClass) MustNew(raw Date) DateValue {
	return Must(c.New(raw))
}

// Parse reads an ISO 8601 date.
func (c *DateClass) Parse(text string) (DateValue, error) {
	v, err := c.Class.Parse(text)
	return DateValue{Value: v}, err
}

func (d DateValue) rebuild(v Date) (DateValue, error) {
	out, err := d.class.New(v)
	if err != nil {
		return DateValue{}, err
	}
	return DateValue{Value: out}, nil
}

// Equal reports whether other is a value of the same class, or a bare Date,
// holding the same date.
func (d DateValue) Equal(other any) bool { return equalDateLike(d.Value, other) }

// Compare orders d against any date value object or a bare Date.
func (d DateValue) Compare(other any) (int, error) { return compareDateLike(d.Value, other) }

// Less reports d < other.
func (d DateValue) Less(other any) (bool, error) { return lessDateLike(d.Value, other, -1, false) }

// LessOrEqual reports d <= other.
func (d DateValue) LessOrEqual(other any) (bool, error) { return lessDateLike(d.Value, other, -1, true) }

// Greater reports d > other.
func (d DateValue) Greater(other any) (bool, error) { return lessDateLike(d.Value, other, 1, false) }

// GreaterOrEqual reports d >= other.
func (d DateValue) GreaterOrEqual(other any) (bool, error) {
	return lessDateLike(d.Value, other, 1, true)
}

// Add returns the date moved forward by the whole days of dur.
func (d DateValue) Add(dur time.Duration) (DateValue, error) {
	v, err := d.value.Add(dur)
	if err != nil {
		return DateValue{}, NewInvalidValueError(d.ClassName(), err.Error())
	}
	return d.rebuild(v)
}

// SubDuration returns the date moved back by the whole days of dur.
func (d DateValue) SubDuration(dur time.Duration) (DateValue, error) {
	if dur == math.MinInt64 {
		return DateValue{}, NewInvalidValueError(d.ClassName(), "duration is out of range")
	}
	return d.Add(-dur)
}

// Sub returns the duration between d and another date value object or bare
// Date. time.Duration spans about 292 years, so wider gaps fail; use SubDays
// for those.
func (d DateValue) Sub(other any) (time.Duration, error) {
	o, err := dateOperand(d.Value, "-", other)
	if err != nil {
		return 0, err
	}
	diff, err := d.value.Sub(o)
	if err != nil {
		return 0, NewInvalidValueError(d.ClassName(), err.Error())
	}
	return diff, nil
}

// SubDays returns the number of days from another date value object or bare
// Date to d. It covers the whole calendar range.
func (d DateValue) SubDays(other any) (int, error) {
	o, err := dateOperand(d.Value, "-", other)
	if err != nil {
		return 0, err
	}
	return d.value.DaysSince(o), nil
}

// Year returns the year.
func (d DateValue) Year() int { return d.value.Year() }

// Month returns the month.
func (d DateValue) Month() time.Month { return d.value.Month() }

// Day returns the day of the month.
func (d DateValue) Day() int { return d.value.Day() }

// YearDay returns the day of the year.
func (d DateValue) YearDay() int { return d.value.YearDay() }

// Ordinal returns the proleptic Gregorian ordinal, where 0001-01-01 is 1.
func (d DateValue) Ordinal() int { return d.value.Ordinal() }

// Weekday returns the day of the week with Monday as 0.
func (d DateValue) Weekday() int { return mondayFirst(d.value.Weekday()) }

// ISOWeekday returns the day of the week with Monday as 1.
func (d DateValue) ISOWeekday() int { return mondayFirst(d.value.Weekday()) + 1 }

// ISOCalendar returns the ISO year, week number and weekday.
func (d DateValue) ISOCalendar() (year, week, weekday int) {
	year, week = d.value.ISOWeek()
	return year, week, d.ISOWeekday()
}

// ISOFormat returns YYYY-MM-DD.
func (d DateValue) ISOFormat() string { return d.value.String() }

// CTime returns the C ctime form, such as "Sat Jan  1 00:00:00 2000".
func (d DateValue) CTime() string { return d.value.Format(time.ANSIC) }

// Format formats the date with a time package layout.
func (d DateValue) Format(layout string) string { return d.value.Format(layout) }

// Date returns the payload.
func (d DateValue) Date() Date { return d.value }

// Replace returns a value of the same class with the given fields changed.
// Time of day and location fields are not valid for dates.
func (d DateValue) Replace(fields ...DateField) (DateValue, error) {
	var f dateFields
	for _, set := range fields {
		set(&f)
	}
	if f.hasTime() {
		return DateValue{}, NewInvalidValueError(d.ClassName(), "date has no time of day or location")
	}
	y, m, day := f.date(d.value.Year(), d.value.Month(), d.value.Day())
	v, err := NewDate(y, m, day)
	if err != nil {
		return DateValue{}, NewInvalidValueError(d.ClassName(), err.Error())
	}
	return d.rebuild(v)
}

// DateTimeClass is a class of instant values.
type DateTimeClass struct {
	*Class[time.Time]
}

// DateTimeValue is a value of a DateTimeClass.
type DateTimeValue struct {
	Value[time.Time]
}

// DefineDateTime creates a DateTime class. Equality follows time.Time.Equal:
// the same instant in different locations is equal.
func DefineDateTime(name string, validator Validator[time.Time], opts ...Option) (*DateTimeClass, error) {
	tr := defaultTraits[time.Time]()
	tr.clone = func(t time.Time) time.Time { return t }
	tr.deepClone = tr.clone
	tr.truthy = func(time.Time) bool { return true }
	tr.key = func(t time.Time) any { return t.Round(0).UTC() }
	c, err := define(name, validator, DateTimeKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &DateTimeClass{Class: c}, nil
}

// New validates raw and wraps the result.
func (c *DateTimeClass) New(raw time.Time) (DateTimeValue, error) {
	v, err := c.Class.New(raw)
	return DateTimeValue{Value: v}, err
}

// MustNew is like New but panics on error.
func (c *DateTimeClass) MustNew(raw time.Time) DateTimeValue {
	return Must(c.New(raw))
}

// Parse reads an RFC 3339 timestamp.
func (c *DateTimeClass) Parse(text string) (DateTimeValue, error) {
	v, err := c.Class.Parse(text)
	return DateTimeValue{Value: v}, err
}

func (t DateTimeValue) rebuild(v time.Time) (DateTimeValue, error) {
	out, err := t.class.New(v)
	if err != nil {
		return DateTimeValue{}, err
	}
	return DateTimeValue{Value: out}, nil
}

// Equal reports whether other is a value of the same class, or a bare
// time.Time, holding the same instant.
func (t DateTimeValue) Equal(other any) bool { return equalDateLike(t.Value, other) }

// Compare orders t against any date-time value object or a bare time.Time.
func (t DateTimeValue) Compare(other any) (int, error) { return compareDateLike(t.Value, other) }

// Less reports t < other.
func (t DateTimeValue) Less(other any) (bool, error) { return lessDateLike(t.Value, other, -1, false) }

// LessOrEqual reports t <= other.
func (t DateTimeValue) LessOrEqual(other any) (bool, error) {
	return lessDateLike(t.Value, other, -1, true)
}

// Greater reports t > other.
func (t DateTimeValue) Greater(other any) (bool, error) {
	return lessDateLike(t.Value, other, 1, false)
}

// GreaterOrEqual reports t >= other.
func (t DateTimeValue) GreaterOrEqual(other any) (bool, error) {
	return lessDateLike(t.Value, other, 1, true)
}

// Add returns t + dur.
func (t DateTimeValue) Add(dur time.Duration) (DateTimeValue, error) {
	return t.rebuild(t.value.Add(dur))
}

// SubDuration returns t - dur.
func (t DateTimeValue) SubDuration(dur time.Duration) (DateTimeValue, error) {
	if dur == math.MinInt64 {
		return DateTimeValue{}, NewInvalidValueError(t.ClassName(), "duration is out of range")
	}
	return t.rebuild(t.value.Add(-dur))
}

// Sub returns the duration between t and another date-time value object or
// bare time.Time.
func (t DateTimeValue) Sub(other any) (time.Duration, error) {
	o, err := dateOperand(t.Value, "-", other)
	if err != nil {
		return 0, err
	}
	diff := t.value.Sub(o)
	if (diff == maxDuration || diff == minDuration) && !o.Add(diff).Equal(t.value) {
		return 0, NewInvalidValueError(t.ClassName(), "difference overflows time.Duration")
	}
	return diff, nil
}

// Year returns the year.
func (t DateTimeValue) Year() int { return t.value.Year() }

// Month returns the month.
func (t DateTimeValue) Month() time.Month { return t.value.Month() }

// Day returns the day of the month.
func (t DateTimeValue) Day() int { return t.value.Day() }

// Hour returns the hour.
func (t DateTimeValue) Hour() int { return t.value.Hour() }

// Minute returns the minute.
func (t DateTimeValue) Minute() int { return t.value.Minute() }

// Second returns the second.
func (t DateTimeValue) Second() int { return t.value.Second() }

// Microsecond returns the microsecond within the second.
func (t DateTimeValue) Microsecond() int { return t.value.Nanosecond() / 1000 }

// Nanosecond returns the nanosecond within the second.
func (t DateTimeValue) Nanosecond() int { return t.value.Nanosecond() }

// YearDay returns the day of the year.
func (t DateTimeValue) YearDay() int { return t.value.YearDay() }

// Ordinal returns the proleptic Gregorian ordinal of the date part.
func (t DateTimeValue) Ordinal() int { return DateOf(t.value).Ordinal() }

// Weekday returns the day of the week with Monday as 0.
func (t DateTimeValue) Weekday() int { return mondayFirst(t.value.Weekday()) }

// ISOWeekday returns the day of the week with Monday as 1.
func (t DateTimeValue) ISOWeekday() int { return mondayFirst(t.value.Weekday()) + 1 }

// ISOCalendar returns the ISO year, week number and weekday.
func (t DateTimeValue) ISOCalendar() (year, week, weekday int) {
	year, week = t.value.ISOWeek()
	return year, week, t.ISOWeekday()
}

// ISOFormat returns the RFC 3339 form with nanoseconds when present.
func (t DateTimeValue) ISOFormat() string { return t.value.Format(time.RFC3339Nano) }

// CTime returns the C ctime form.
func (t DateTimeValue) CTime() string { return t.value.Format(time.ANSIC) }

// Format formats the instant with a time package layout.
func (t DateTimeValue) Format(layout string) string { return t.value.Format(layout) }

// Location returns the time zone of the payload.
func (t DateTimeValue) Location() *time.Location { return t.value.Location() }

// ZoneName returns the abbreviated zone name in effect at t.
func (t DateTimeValue) ZoneName() string {
	name, _ := t.value.Zone()
	return name
}

// UTCOffset returns the offset from UTC in effect at t.
func (t DateTimeValue) UTCOffset() time.Duration {
	_, offset := t.value.Zone()
	return time.Duration(offset) * time.Second
}

// IsDST reports whether daylight saving time is in effect at t.
func (t DateTimeValue) IsDST() bool { return t.value.IsDST() }

// In returns the payload converted to loc.
func (t DateTimeValue) In(loc *time.Location) time.Time { return t.value.In(loc) }

// Timestamp returns seconds since the Unix epoch.
func (t DateTimeValue) Timestamp() float64 {
	return float64(t.value.Unix()) + float64(t.value.Nanosecond())/1e9
}

// Date returns the calendar date of t in its location.
func (t DateTimeValue) Date() Date { return DateOf(t.value) }

// Replace returns a value of the same class with the given fields changed.
func (t DateTimeValue) Replace(fields ...DateField) (DateTimeValue, error) {
	var f dateFields
	for _, set := range fields {
		set(&f)
	}
	v := t.value
	y, m, d := f.date(v.Year(), v.Month(), v.Day())
	if _, err := NewDate(y, m, d); err != nil {
		return DateTimeValue{}, NewInvalidValueError(t.ClassName(), err.Error())
	}
	hour, minute, sec, nsec := pick(f.hour, v.Hour()), pick(f.minute, v.Minute()),
		pick(f.second, v.Second()), pick(f.nsec, v.Nanosecond())
	switch {
	case hour < 0 || hour > 23:
		return DateTimeValue{}, NewInvalidValueError(t.ClassName(), "hour must be in 0..23")
	case minute < 0 || minute > 59:
		return DateTimeValue{}, NewInvalidValueError(t.ClassName(), "minute must be in 0..59")
	case sec < 0 || sec > 59:
		return DateTimeValue{}, NewInvalidValueError(t.ClassName(), "second must be in 0..59")
	case nsec < 0 || nsec > 999999999:
		return DateTimeValue{}, NewInvalidValueError(t.ClassName(), "nanosecond must be in 0..999999999")
	}
	loc := v.Location()
	if f.loc != nil {
		loc = f.loc
	}
	return t.rebuild(time.Date(y, m, d, hour, minute, sec, nsec, loc))
}

// DateField selects a field to change in Replace.
type DateField func(*dateFields)

type dateFields struct {
	year, day                  *int
	month                      *time.Month
	hour, minute, second, nsec *int
	loc                        *time.Location
}

func (f dateFields) hasTime() bool {
	return f.hour != nil || f.minute != nil || f.second != nil || f.nsec != nil || f.loc != nil
}

func (f dateFields) date(y int, m time.Month, d int) (int, time.Month, int) {
	if f.month != nil {
		m = *f.month
	}
	return pick(f.year, y), m, pick(f.day, d)
}

func pick(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// WithYear replaces the year.
func WithYear(year int) DateField { return func(f *dateFields) { f.year = &year } }

// WithMonth replaces the month.
func WithMonth(month time.Month) DateField { return func(f *dateFields) { f.month = &month } }

// WithDay replaces the day of the month.
func WithDay(day int) DateField { return func(f *dateFields) { f.day = &day } }

// WithHour replaces the hour.
func WithHour(hour int) DateField { return func(f *dateFields) { f.hour = &hour } }

// WithMinute replaces the minute.
func WithMinute(minute int) DateField { return func(f *dateFields) { f.minute = &minute } }

// WithSecond replaces the second.
func WithSecond(second int) DateField { return func(f *dateFields) { f.second = &second } }

// WithNanosecond replaces the nanosecond within the second.
func WithNanosecond(nsec int) DateField { return func(f *dateFields) { f.nsec = &nsec } }

// WithLocation replaces the location, keeping the wall clock fields.
func WithLocation(loc *time.Location) DateField { return func(f *dateFields) { f.loc = loc } }

func mondayFirst(w time.Weekday) int {
	return (int(w) + 6) % 7
}

type dateLike[T any] interface {
	Compare(T) int
	Equal(T) bool
}

// dateOperand accepts a value object of any class over the same payload, or
// a bare payload.
func dateOperand[T dateLike[T]](v Value[T], op string, other any) (T, error) {
	var zero T
	switch o := other.(type) {
	case holder[T]:
		ov := o.core()
		if ov.class == nil {
			return zero, NewTypeMismatchError(op, v.ClassName(), ov.ClassName())
		}
		return ov.value, nil
	case T:
		return o, nil
	}
	return zero, NewTypeMismatchError(op, v.ClassName(), operandName(other))
}

func equalDateLike[T dateLike[T]](v Value[T], other any) bool {
	switch o := other.(type) {
	case holder[T]:
		return v.Equal(o)
	case T:
		return v.class != nil && v.value.Equal(o)
	}
	return false
}

func compareDateLike[T dateLike[T]](v Value[T], other any) (int, error) {
	o, err := dateOperand(v, "comparison", other)
	if err != nil {
		return 0, err
	}
	return v.value.Compare(o), nil
}

// lessDateLike reports whether v compares to other as sign, or equal when
// orEqual is set.
func lessDateLike[T dateLike[T]](v Value[T], other any, sign int, orEqual bool) (bool, error) {
	c, err := compareDateLike(v, other)
	if err != nil {
		return false, err
	}
	return c == sign || (orEqual && c == 0), nil
}
