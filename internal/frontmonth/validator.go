package frontmonth

import (
	"strings"
	"time"
)

// Outcome classifies the result of validating one record.
type Outcome int

const (
	Accepted Outcome = iota
	InvalidShape
	SpreadSymbol
	InvalidTimestamp
	InvalidSymbol
	MonthMismatch
)

// Outcomes lists every Outcome in declaration order.
var Outcomes = []Outcome{Accepted, InvalidShape, SpreadSymbol, InvalidTimestamp, InvalidSymbol, MonthMismatch}

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case InvalidShape:
		return "invalid_shape"
	case SpreadSymbol:
		return "spread_symbol"
	case InvalidTimestamp:
		return "invalid_timestamp"
	case InvalidSymbol:
		return "invalid_symbol"
	case MonthMismatch:
		return "month_mismatch"
	}
	return "unknown"
}

// Result holds what Validate learned about a record. Fields are filled in
// as far as validation progressed.
type Result struct {
	Outcome   Outcome
	Timestamp time.Time // Parsed event time (wall clock)
	Symbol    string    // Trimmed last field
	Candidate Contract  // Front contract for Timestamp's date
	Contract  Contract  // Contract encoded by Symbol
}

// Accepted reports whether the record is the front-month contract.
func (r Result) Accepted() bool {
	return r.Outcome == Accepted
}

// IsValidFrontMonth reports whether record is a bar of the front-month
// contract. Malformed records are never front-month.
func IsValidFrontMonth(record string) bool {
	return Validate(record).Accepted()
}

// Validate runs the full front-month decision for one comma-separated
// record. Only the first field (event timestamp) and the last field
// (symbol) are read.
func Validate(record string) Result {
	var res Result

	parts := strings.Split(record, ",")
	if len(parts) < 2 {
		res.Outcome = InvalidShape
		return res
	}

	res.Symbol = strings.TrimSpace(parts[len(parts)-1])
	if strings.Contains(res.Symbol, "-") {
		res.Outcome = SpreadSymbol
		return res
	}

	ts, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		res.Outcome = InvalidTimestamp
		return res
	}
	res.Timestamp = ts
	res.Candidate = CandidateFor(ts)

	res.Contract, err = ParseSymbol(res.Symbol, res.Candidate.Year)
	if err != nil {
		res.Outcome = InvalidSymbol
		return res
	}

	if res.Contract != res.Candidate {
		res.Outcome = MonthMismatch
		return res
	}
	res.Outcome = Accepted
	return res
}
