// Package testutil provides rapid generators for value object tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/authcorp/valueobject/vo"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// DateGen generates valid calendar dates between the years 1 and 9999.
func DateGen() *rapid.Generator[vo.Date] {
	return rapid.Custom(func(t *rapid.T) vo.Date {
		ordinal := rapid.IntRange(1, 3652059).Draw(t, "ordinal")
		return vo.Must(vo.DateFromOrdinal(ordinal))
	})
}

// DateRangeGen generates dates between from and to inclusive.
func DateRangeGen(from, to vo.Date) *rapid.Generator[vo.Date] {
	return rapid.Custom(func(t *rapid.T) vo.Date {
		ordinal := rapid.IntRange(from.Ordinal(), to.Ordinal()).Draw(t, "ordinal")
		return vo.Must(vo.DateFromOrdinal(ordinal))
	})
}

// TimeGen generates UTC instants between 1900 and 2200 with nanosecond
// precision.
func TimeGen() *rapid.Generator[time.Time] {
	return rapid.Custom(func(t *rapid.T) time.Time {
		sec := rapid.Int64Range(-2208988800, 7258118400).Draw(t, "sec")
		nsec := rapid.Int64Range(0, 999999999).Draw(t, "nsec")
		return time.Unix(sec, nsec).UTC()
	})
}

// ZoneGen generates fixed-offset locations.
func ZoneGen() *rapid.Generator[*time.Location] {
	return rapid.Custom(func(t *rapid.T) *time.Location {
		offset := rapid.IntRange(-12, 14).Draw(t, "offset")
		return time.FixedZone("", offset*3600)
	})
}

// DecimalGen generates decimals with up to scale fractional digits.
func DecimalGen(scale int32) *rapid.Generator[decimal.Decimal] {
	return rapid.Custom(func(t *rapid.T) decimal.Decimal {
		units := rapid.Int64Range(-1_000_000_000, 1_000_000_000).Draw(t, "units")
		exp := rapid.Int32Range(0, scale).Draw(t, "exp")
		return decimal.New(units, -exp)
	})
}

// TextGen generates valid UTF-8 strings of up to max runes.
func TextGen(max int) *rapid.Generator[string] {
	return rapid.StringN(0, max, -1)
}

// AlnumGen generates alphanumeric strings, safe for YAML and SQL text.
func AlnumGen(min, max int) *rapid.Generator[string] {
	return rapid.StringMatching(fmt.Sprintf(`[a-zA-Z0-9]{%d,%d}`, min, max))
}

// LabelsGen generates small string maps.
func LabelsGen() *rapid.Generator[map[string]string] {
	return rapid.MapOfN(AlnumGen(1, 8), AlnumGen(0, 12), 0, 6)
}
