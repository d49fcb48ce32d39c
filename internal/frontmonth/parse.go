package frontmonth

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// maxFractionDigits is the sub-second precision kept before parsing.
const maxFractionDigits = 6

// Symbol decoding errors returned by ParseSymbol.
var (
	// ErrSymbolTooShort means the symbol has fewer than three characters.
	ErrSymbolTooShort = errors.New("symbol too short")

	// ErrMonthCode means the second-to-last character is not H, M, U or Z.
	ErrMonthCode = errors.New("unknown month code")

	// ErrYearDigit means the last character is not an ASCII digit.
	ErrYearDigit = errors.New("year is not a digit")
)

// timestampLayouts are the ISO-8601 shapes accepted after normalization:
// extended or basic dates, an optional time down to the hour, and an optional
// numeric offset. An explicit offset is parsed but never converted; callers
// read the wall-clock fields only.
var timestampLayouts = buildTimestampLayouts()

func buildTimestampLayouts() []string {
	dates := []string{"2006-01-02", "20060102"}
	times := []string{"15:04:05", "15:04", "150405", "1504", "15"}
	offsets := []string{"", "-07:00", "-0700", "-07"}

	var layouts []string
	for _, offset := range offsets {
		for _, date := range dates {
			for _, clock := range times {
				for _, sep := range []string{"T", " "} {
					layouts = append(layouts, date+sep+clock+offset)
				}
			}
		}
	}
	return append(layouts, dates...)
}

// ParseTimestamp parses an event timestamp. One trailing "Z" is dropped and
// fractional seconds are truncated to microseconds. Timestamps without an
// offset are returned in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	s := normalizeTimestamp(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

func normalizeTimestamp(raw string) string {
	s := strings.TrimSuffix(raw, "Z")
	if i := strings.IndexByte(s, 't'); i == 8 || i == 10 {
		s = s[:i] + "T" + s[i+1:]
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	end := dot + 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end-dot-1 <= maxFractionDigits {
		return s
	}
	return s[:dot+1+maxFractionDigits] + s[end:]
}

// ParseSymbol decodes the contract from the last two characters of symbol:
// a month code followed by a single year digit. The digit is expanded to a
// full year inside the decade of anchorYear, rolled forward one decade if
// that would land before anchorYear.
func ParseSymbol(symbol string, anchorYear int) (Contract, error) {
	if utf8.RuneCountInString(symbol) < 3 {
		return Contract{}, fmt.Errorf("%w: %q", ErrSymbolTooShort, symbol)
	}
	yearChar, size := utf8.DecodeLastRuneInString(symbol)
	codeChar, _ := utf8.DecodeLastRuneInString(symbol[:len(symbol)-size])

	month, ok := MonthForCode(codeChar)
	if !ok {
		return Contract{}, fmt.Errorf("%w: %q", ErrMonthCode, codeChar)
	}
	if yearChar < '0' || yearChar > '9' {
		return Contract{}, fmt.Errorf("%w: %q", ErrYearDigit, yearChar)
	}

	year := (anchorYear/10)*10 + int(yearChar-'0')
	if year < anchorYear {
		year += 10
	}
	return Contract{Year: year, Month: month}, nil
}
