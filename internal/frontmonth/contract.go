package frontmonth

import (
	"strconv"
	"time"
)

// contractMonths lists the quarterly expiry months in ascending order.
var contractMonths = [...]time.Month{time.March, time.June, time.September, time.December}

// Contract identifies a quarterly futures contract.
type Contract struct {
	Year  int
	Month time.Month
}

// String renders the contract as month code plus full year, e.g. "H2019".
func (c Contract) String() string {
	code, ok := CodeForMonth(c.Month)
	if !ok {
		return c.Month.String() + strconv.Itoa(c.Year)
	}
	return string(code) + strconv.Itoa(c.Year)
}

// MonthForCode maps an exchange month code to its calendar month.
func MonthForCode(code rune) (time.Month, bool) {
	switch code {
	case 'H':
		return time.March, true
	case 'M':
		return time.June, true
	case 'U':
		return time.September, true
	case 'Z':
		return time.December, true
	}
	return 0, false
}

// CodeForMonth maps a quarterly month to its exchange month code.
func CodeForMonth(m time.Month) (rune, bool) {
	switch m {
	case time.March:
		return 'H', true
	case time.June:
		return 'M', true
	case time.September:
		return 'U', true
	case time.December:
		return 'Z', true
	}
	return 0, false
}

// IsContractMonth reports whether m is one of the quarterly expiry months.
func IsContractMonth(m time.Month) bool {
	_, ok := CodeForMonth(m)
	return ok
}

// ThirdFriday returns the expiration date (midnight UTC) of the contract for
// the given year and month.
func ThirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysUntilFriday := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, daysUntilFriday+14)
}

// NextContract returns the first quarterly contract strictly after month in
// year, wrapping to March of the following year.
func NextContract(year int, month time.Month) Contract {
	for _, m := range contractMonths {
		if m > month {
			return Contract{Year: year, Month: m}
		}
	}
	return Contract{Year: year + 1, Month: contractMonths[0]}
}

// CandidateFor returns the contract that is front on t's calendar date.
// Only the wall-clock year, month and day of t are used.
func CandidateFor(t time.Time) Contract {
	year, month, day := t.Date()
	if IsContractMonth(month) && day <= ThirdFriday(year, month).Day() {
		return Contract{Year: year, Month: month}
	}
	return NextContract(year, month)
}
