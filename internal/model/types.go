package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places kept in fixed-point prices.
const PriceScale = 9

// Bar represents one OHLCV bar accepted as the front-month contract.
type Bar struct {
	TsEvent      time.Time // Bar open time (UTC)
	TsDisplay    string    // TsEvent rendered in the display timezone
	RType        int16     // Vendor record type (e.g. 33 = 1-minute OHLCV)
	PublisherID  int32     // Vendor publisher (venue/dataset) ID
	InstrumentID int64     // Vendor instrument ID
	Open         int64     // Nano-units
	High         int64     // Nano-units
	Low          int64     // Nano-units
	Close        int64     // Nano-units
	Volume       int64     // Contracts traded
	Symbol       string    // Raw ticker symbol, e.g. "NQH9"
	LoadID       uuid.UUID // Loader run that wrote this row
}

// ErrPriceRange is returned when a price does not fit in int64 nano-units.
var ErrPriceRange = errors.New("price out of range")

// PriceToNano converts a price to fixed-point nano-units. Precision beyond
// PriceScale decimal places is truncated.
func PriceToNano(d decimal.Decimal) (int64, error) {
	n := d.Shift(PriceScale).BigInt()
	if !n.IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrPriceRange, d.String())
	}
	return n.Int64(), nil
}
