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

package eodhd

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"strconv"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"golang.org/x/exp/slices"
)

// candleColumns maps the CSV header names of the EOD endpoint to setters on a
// Candle. Unknown columns are ignored, so the parser keeps working when the
// vendor appends new ones.
var candleColumns = map[string]func(*Candle, string) error{
	"Date": func(c *Candle, s string) error {
		d, err := db.NewDateFromString(s)
		if err != nil {
			return errors.Annotate(err, "invalid date %q", s)
		}
		c.Date = d
		return nil
	},
	"Open":           func(c *Candle, s string) error { return parseCSVFloat(s, &c.Open) },
	"High":           func(c *Candle, s string) error { return parseCSVFloat(s, &c.High) },
	"Low":            func(c *Candle, s string) error { return parseCSVFloat(s, &c.Low) },
	"Close":          func(c *Candle, s string) error { return parseCSVFloat(s, &c.Close) },
	"Adjusted_close": func(c *Candle, s string) error { return parseCSVFloat(s, &c.AdjustedClose) },
	"Volume": func(c *Candle, s string) error {
		if s == "" {
			c.Volume = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Annotate(err, "invalid volume %q", s)
		}
		c.Volume = v
		return nil
	},
}

func parseCSVFloat(s string, out *float64) error {
	if s == "" {
		*out = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Annotate(err, "invalid number %q", s)
	}
	*out = v
	return nil
}

func parseCandlesCSV(r io.Reader) ([]Candle, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read CSV header")
	}
	setters := make([]func(*Candle, string) error, len(header))
	for i, col := range header {
		setters[i] = candleColumns[col] // nil for unknown columns
	}
	var candles []Candle
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "failed to read CSV row %d", row)
		}
		var c Candle
		for i, field := range record {
			if setters[i] == nil {
				continue
			}
			if err := setters[i](&c, field); err != nil {
				return nil, errors.Annotate(err, "failed to parse CSV row %d", row)
			}
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// EODCSV fetches the same quote history as EOD, but as CSV, which is the
// vendor's default wire format. The result is sorted chronologically.
func EODCSV(ctx context.Context, ticker string, r Range, period Period) ([]Candle, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	if period == "" {
		period = Daily
	}
	query := r.Values()
	query.Set("period", string(period))
	query.Set("fmt", "csv")
	body, err := get(ctx, "/eod/"+url.PathEscape(ticker), query)
	if err != nil {
		return nil, err
	}
	candles, err := parseCandlesCSV(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse CSV response for %s", ticker)
	}
	slices.SortFunc(candles, func(a, b Candle) bool { return a.Date.Before(b.Date) })
	logging.Infof(ctx, "EODHD: fetched %d EOD quotes (CSV) for %s", len(candles), ticker)
	return candles, nil
}
