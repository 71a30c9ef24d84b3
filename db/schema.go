// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockparfait/errors"
)

// parseDate parses the date string formats emitted by the EODHD API.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
	}
	var err error
	for _, f := range formats {
		var tm time.Time
		tm, err = time.Parse(f, s)
		if err == nil {
			return tm, nil
		}
	}
	return time.Time{}, err
}

// Date is a calendar date as year, month and day. It fits in 4 bytes, which
// matters for large in-memory price series.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}

// NewDate is the constructor for Date.
func NewDate(year uint16, month, day uint8) Date {
	return Date{Year: year, Month: month, Day: day}
}

// NewDateFromTime creates a Date from the date part of t in its location.
func NewDateFromTime(t time.Time) Date {
	return Date{
		Year:  uint16(t.Year()),
		Month: uint8(t.Month()),
		Day:   uint8(t.Day()),
	}
}

// NewDateFromString parses a Date from a vendor-format string. The vendor
// marks a missing date as an empty string or "0000-00-00"; both parse to the
// zero value.
func NewDateFromString(s string) (Date, error) {
	if s == "" || s == "0000-00-00" {
		return Date{}, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return Date{}, errors.Annotate(err, "failed to parse a Date string: '%s'", s)
	}
	return NewDateFromTime(t), nil
}

// String representation of the value, the same format the API expects in
// "from" and "to" query parameters.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. NOTE: unlike other methods, this
// is a pointer method.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Date JSON must be a string")
	}
	date, err := NewDateFromString(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse Date string")
	}
	*d = date
	return nil
}

// ToTime converts Date to time.Time at midnight UTC.
func (d Date) ToTime() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

// IsZero checks whether the date has a zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before compares two Date values for strict inequality, self < d2.
func (d Date) Before(d2 Date) bool {
	if d.Year != d2.Year {
		return d.Year < d2.Year
	}
	if d.Month != d2.Month {
		return d.Month < d2.Month
	}
	return d.Day < d2.Day
}

// After compares two Date values for strict inequality, self > d2.
func (d Date) After(d2 Date) bool {
	return d2.Before(d)
}

// InRange checks if d is within the inclusive date range. Either bound may be
// a zero value, in which case it is ignored.
func (d Date) InRange(start, end Date) bool {
	if d.IsZero() {
		return false
	}
	if !start.IsZero() && start.After(d) {
		return false
	}
	if !end.IsZero() && end.Before(d) {
		return false
	}
	return true
}

// QuoteRow is a row in a ticker's quotes table, one per trading period.
// Prices are in the stock's native currency.
type QuoteRow struct {
	Date          Date
	Open          float32
	High          float32
	Low           float32
	Close         float32
	AdjustedClose float32 // adjusted for splits and dividends
	Volume        int64   // number of shares traded; 0 when the vendor omits it
}

// TestQuote creates a QuoteRow for use in tests.
func TestQuote(date Date, open, high, low, close, adjusted float32, volume int64) QuoteRow {
	return QuoteRow{
		Date:          date,
		Open:          open,
		High:          high,
		Low:           low,
		Close:         close,
		AdjustedClose: adjusted,
		Volume:        volume,
	}
}

// QuoteRowHeader is the header for QuoteRow table printouts.
func QuoteRowHeader() []string {
	return []string{"Date", "Open", "High", "Low", "Close", "Adj. Close", "Volume"}
}

// CSV returns an encoding/csv compatible representation of the row.
func (q QuoteRow) CSV() []string {
	return []string{
		q.Date.String(),
		fmt.Sprintf("%g", q.Open),
		fmt.Sprintf("%g", q.High),
		fmt.Sprintf("%g", q.Low),
		fmt.Sprintf("%g", q.Close),
		fmt.Sprintf("%g", q.AdjustedClose),
		fmt.Sprintf("%d", q.Volume),
	}
}

// DividendRow is a row in a ticker's dividends table, one per ex-dividend
// date.
type DividendRow struct {
	Date     Date // ex-dividend date
	Payment  Date
	Record   Date
	Value    float32 // split-adjusted amount per share
	Currency string
}

// TestDividend creates a DividendRow for use in tests.
func TestDividend(date, payment Date, value float32, currency string) DividendRow {
	return DividendRow{
		Date:     date,
		Payment:  payment,
		Value:    value,
		Currency: currency,
	}
}

// DividendRowHeader is the header for DividendRow table printouts.
func DividendRowHeader() []string {
	return []string{"Ex-Date", "Payment", "Record", "Value", "Currency"}
}

// CSV returns an encoding/csv compatible representation of the row.
func (d DividendRow) CSV() []string {
	return []string{
		d.Date.String(),
		d.Payment.String(),
		d.Record.String(),
		fmt.Sprintf("%g", d.Value),
		d.Currency,
	}
}

// SplitRow is a row in a ticker's splits table.
type SplitRow struct {
	Date        Date
	Numerator   float32
	Denominator float32
}

// Ratio is the share multiplication factor of the split, e.g. 2.0 for "2/1".
func (s SplitRow) Ratio() float32 {
	if s.Denominator == 0 {
		return 0
	}
	return s.Numerator / s.Denominator
}

// TestSplit creates a SplitRow for use in tests.
func TestSplit(date Date, num, denom float32) SplitRow {
	return SplitRow{Date: date, Numerator: num, Denominator: denom}
}

// SplitRowHeader is the header for SplitRow table printouts.
func SplitRowHeader() []string {
	return []string{"Date", "Split"}
}

// CSV returns an encoding/csv compatible representation of the row.
func (s SplitRow) CSV() []string {
	return []string{
		s.Date.String(),
		fmt.Sprintf("%g/%g", s.Numerator, s.Denominator),
	}
}

// TickerRow is a row in the tickers table, as listed by the vendor's
// per-exchange symbol list.
type TickerRow struct {
	Name     string // the company or instrument name
	Exchange string // vendor's exchange code, e.g. "US"
	Country  string
	Currency string
	Type     string // e.g. "Common Stock", "ETF"
	ISIN     string
}

// TickerRowHeader is the header for TickerRow table printouts.
func TickerRowHeader() []string {
	return []string{"Ticker", "Name", "Exchange", "Country", "Currency", "Type", "ISIN"}
}

// CSV returns an encoding/csv compatible row for the ticker and its table row.
func (t TickerRow) CSV(ticker string) []string {
	return []string{ticker, t.Name, t.Exchange, t.Country, t.Currency, t.Type, t.ISIN}
}

// Metadata is the schema of the metadata.json file of a database.
type Metadata struct {
	Start        Date `json:"start"` // the earliest quote date in the DB
	End          Date `json:"end"`   // the latest quote date in the DB
	NumTickers   int  `json:"num_tickers"`
	NumQuotes    int  `json:"num_quotes"`
	NumDividends int  `json:"num_dividends"`
	NumSplits    int  `json:"num_splits"`
}

// UpdateQuotes updates the metadata with a ticker's quote series.
func (m *Metadata) UpdateQuotes(quotes []QuoteRow) {
	m.NumQuotes += len(quotes)
	for _, q := range quotes {
		if m.Start.IsZero() || q.Date.Before(m.Start) {
			m.Start = q.Date
		}
		if m.End.IsZero() || q.Date.After(m.End) {
			m.End = q.Date
		}
	}
}
