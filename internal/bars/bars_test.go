package bars

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/futures-bars/internal/model"
)

const sample = "2018-03-12T06:12:00.000000000Z,33,1,23520,7167.25,7167.50,7167.00,7167.50,10,NQH8"

func TestSplit(t *testing.T) {
	fields, err := Split(sample)
	require.NoError(t, err)
	assert.Len(t, fields, FieldCount)
	assert.Equal(t, "NQH8", fields[FieldSymbol])

	_, err = Split("2018-03-12T06:12:00Z,33,NQH8")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
	assert.Contains(t, err.Error(), "got 3, want 10")

	_, err = Split(sample + ",extra")
	assert.True(t, errors.Is(err, ErrFieldCount))
}

func TestParse(t *testing.T) {
	fields, err := Split(sample)
	require.NoError(t, err)

	bar, err := Parse(fields, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2018, 3, 12, 6, 12, 0, 0, time.UTC), bar.TsEvent)
	assert.Equal(t, "2018-03-12T06:12:00.000000Z", bar.TsDisplay)
	assert.Equal(t, int16(33), bar.RType)
	assert.Equal(t, int32(1), bar.PublisherID)
	assert.Equal(t, int64(23520), bar.InstrumentID)
	assert.Equal(t, int64(7167250000000), bar.Open)
	assert.Equal(t, int64(7167500000000), bar.High)
	assert.Equal(t, int64(7167000000000), bar.Low)
	assert.Equal(t, int64(7167500000000), bar.Close)
	assert.Equal(t, int64(10), bar.Volume)
	assert.Equal(t, "NQH8", bar.Symbol)
}

func TestParse_DisplayTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	fields, err := Split(sample)
	require.NoError(t, err)

	bar, err := Parse(fields, loc)
	require.NoError(t, err)

	// March 12 2018 is after the DST switch (EDT, UTC-4).
	assert.Equal(t, "2018-03-12T02:12:00.000000-04:00", bar.TsDisplay)
	assert.Equal(t, time.UTC, bar.TsEvent.Location())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		wantMsg string
	}{
		{"bad timestamp", "nope,33,1,23520,1,2,3,4,10,NQH8", "parse ts_event"},
		{"bad rtype", "2018-03-12T06:12:00Z,x,1,23520,1,2,3,4,10,NQH8", "parse rtype"},
		{"rtype overflow", "2018-03-12T06:12:00Z,70000,1,23520,1,2,3,4,10,NQH8", "parse rtype"},
		{"bad publisher", "2018-03-12T06:12:00Z,33,,23520,1,2,3,4,10,NQH8", "parse publisher_id"},
		{"bad instrument", "2018-03-12T06:12:00Z,33,1,abc,1,2,3,4,10,NQH8", "parse instrument_id"},
		{"bad open", "2018-03-12T06:12:00Z,33,1,23520,x,2,3,4,10,NQH8", "parse open"},
		{"open out of range", "2018-03-12T06:12:00Z,33,1,23520,10000000000,2,3,4,10,NQH8", "parse open: price out of range"},
		{"low out of range", "2018-03-12T06:12:00Z,33,1,23520,1,2,-9223372037,4,10,NQH8", "parse low: price out of range"},
		{"bad close", "2018-03-12T06:12:00Z,33,1,23520,1,2,3,,10,NQH8", "parse close"},
		{"bad volume", "2018-03-12T06:12:00Z,33,1,23520,1,2,3,4,1.5,NQH8", "parse volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Split(tt.record)
			require.NoError(t, err)

			_, err = Parse(fields, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_PriceOverflowIsError(t *testing.T) {
	fields, err := Split("2018-03-12T06:12:00Z,33,1,23520,10000000000,2,3,4,10,NQH8")
	require.NoError(t, err)

	bar, err := Parse(fields, nil)
	assert.True(t, errors.Is(err, model.ErrPriceRange), "err = %v", err)
	assert.Zero(t, bar.Open)
}

func TestParse_WrongArity(t *testing.T) {
	_, err := Parse([]string{"a", "b"}, nil)
	assert.True(t, errors.Is(err, ErrFieldCount))
}
