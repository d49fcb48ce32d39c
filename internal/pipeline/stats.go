package pipeline

import "github.com/rickgao/futures-bars/internal/frontmonth"

// Stats counts what happened to each processed line.
type Stats struct {
	Lines        int64
	Accepted     int64
	BadArity     int64
	CoerceErrors int64
	Rejected     map[frontmonth.Outcome]int64
}

func newStats() Stats {
	return Stats{Rejected: make(map[frontmonth.Outcome]int64)}
}

// RejectedTotal sums rejections across all outcomes.
func (s Stats) RejectedTotal() int64 {
	var n int64
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

func (s Stats) clone() Stats {
	c := s
	c.Rejected = make(map[frontmonth.Outcome]int64, len(s.Rejected))
	for k, v := range s.Rejected {
		c.Rejected[k] = v
	}
	return c
}
