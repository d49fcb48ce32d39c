// Package bars turns vendor OHLCV CSV records into typed model.Bar values.
//
// Records carry exactly ten positional fields:
//
//	ts_event, rtype, publisher_id, instrument_id, open, high, low, close, volume, symbol
package bars

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/futures-bars/internal/frontmonth"
	"github.com/rickgao/futures-bars/internal/model"
)

// FieldCount is the number of fields in a well-formed record.
const FieldCount = 10

// Field positions within a record.
const (
	FieldTsEvent = iota
	FieldRType
	FieldPublisherID
	FieldInstrumentID
	FieldOpen
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume
	FieldSymbol
)

// ErrFieldCount is returned by Split for records with the wrong arity.
var ErrFieldCount = errors.New("unexpected number of fields")

// Split breaks a record into its fields, enforcing FieldCount.
func Split(record string) ([]string, error) {
	fields := strings.Split(record, ",")
	if len(fields) != FieldCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}
	return fields, nil
}

// Parse coerces split fields into a Bar. The event timestamp is read as UTC
// and rendered into loc for TsDisplay; a nil loc means UTC.
func Parse(fields []string, loc *time.Location) (model.Bar, error) {
	var bar model.Bar
	if len(fields) != FieldCount {
		return bar, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}

	ts, err := frontmonth.ParseTimestamp(strings.TrimSpace(fields[FieldTsEvent]))
	if err != nil {
		return bar, fmt.Errorf("parse ts_event: %w", err)
	}
	bar.TsEvent = ts.UTC()
	bar.TsDisplay = FormatDisplay(bar.TsEvent, loc)

	rtype, err := parseInt(fields[FieldRType], 16)
	if err != nil {
		return bar, fmt.Errorf("parse rtype: %w", err)
	}
	bar.RType = int16(rtype)

	publisher, err := parseInt(fields[FieldPublisherID], 32)
	if err != nil {
		return bar, fmt.Errorf("parse publisher_id: %w", err)
	}
	bar.PublisherID = int32(publisher)

	if bar.InstrumentID, err = parseInt(fields[FieldInstrumentID], 64); err != nil {
		return bar, fmt.Errorf("parse instrument_id: %w", err)
	}

	prices := []struct {
		name string
		dst  *int64
		raw  string
	}{
		{"open", &bar.Open, fields[FieldOpen]},
		{"high", &bar.High, fields[FieldHigh]},
		{"low", &bar.Low, fields[FieldLow]},
		{"close", &bar.Close, fields[FieldClose]},
	}
	for _, p := range prices {
		d, err := decimal.NewFromString(strings.TrimSpace(p.raw))
		if err != nil {
			return bar, fmt.Errorf("parse %s: %w", p.name, err)
		}
		if *p.dst, err = model.PriceToNano(d); err != nil {
			return bar, fmt.Errorf("parse %s: %w", p.name, err)
		}
	}

	if bar.Volume, err = parseInt(fields[FieldVolume], 64); err != nil {
		return bar, fmt.Errorf("parse volume: %w", err)
	}

	bar.Symbol = strings.TrimSpace(fields[FieldSymbol])
	return bar, nil
}

// FormatDisplay renders t in loc as RFC 3339 with microsecond precision.
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02T15:04:05.000000Z07:00")
}

func parseInt(s string, bitSize int) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, bitSize)
}
