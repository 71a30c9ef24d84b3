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
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"

	"golang.org/x/exp/slices"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://eodhistoricaldata.com/api"

// Client holds the credentials for querying the EODHD endpoints.
type Client struct {
	baseURL  string // the base URL of the server
	apiToken string // your very own secret token
}

// newClient creates a new client.
func newClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API token and injects it into
// the context.
func UseClient(ctx context.Context, apiToken string) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiToken))
}

// Period is the sampling period of an EOD quote series.
type Period string

// Values for Period. The zero value defaults to Daily.
const (
	Daily   = Period("d")
	Weekly  = Period("w")
	Monthly = Period("m")
)

// Range is an inclusive date range. Either bound may be a zero Date, in which
// case it is omitted from the query and the vendor's default applies.
type Range struct {
	From db.Date
	To   db.Date
}

// Values returns the query values for the range. Each call creates a new
// object, so the caller is free to modify it.
func (r Range) Values() url.Values {
	v := make(url.Values)
	if !r.From.IsZero() {
		v.Set("from", r.From.String())
	}
	if !r.To.IsZero() {
		v.Set("to", r.To.String())
	}
	return v
}

func checkTicker(ticker string) error {
	if strings.TrimSpace(ticker) == "" {
		return errors.Reason("ticker must be nonempty")
	}
	return nil
}

// get issues an authenticated GET request for the endpoint path and returns
// the raw response body. A non-200 response becomes a *StatusError carrying
// the status code and the body; a failed connection surfaces as an annotated
// transport error. Neither is retried here.
func get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("no client in context")
	}
	if query == nil {
		query = make(url.Values)
	}
	query.Set("api_token", client.apiToken)
	if query.Get("fmt") == "" {
		query.Set("fmt", "json")
	}
	resp, err := fetch.GetRetry(ctx, client.baseURL+path, query, nil)
	if resp != nil && resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		// The fetch layer consumes the body of a non-2xx response into its
		// error; fall back to the error text so the vendor's message survives.
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		if msg == "" && err != nil {
			msg = err.Error()
		}
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   msg,
		}
	}
	if err != nil {
		return nil, errors.Annotate(err, "failed to GET %s", path)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read response body of %s", path)
	}
	logging.Debugf(ctx, "EODHD: fetched %s: %d bytes", path, len(body))
	return body, nil
}

// getJSON fetches the endpoint and unmarshals the body into v. Transport and
// status errors pass through from get(); a body that does not match the
// expected shape becomes an annotated parse error, never a silent empty
// result.
func getJSON(ctx context.Context, path string, query url.Values, v interface{}) error {
	body, err := get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Annotate(err, "failed to parse JSON response of %s", path)
	}
	return nil
}

// Candle is a single EOD quote: one fully traded day, week or month.
// Open/High/Low/Close may be zero when the vendor omits them (e.g. forex);
// AdjustedClose is always populated by the vendor.
type Candle struct {
	Date          db.Date `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// EOD fetches the quote history for the ticker within the range, one Candle
// per period. Tickers are in the vendor's "SYMBOL.EXCHANGE" format, e.g.
// "AAPL.US". The result is sorted chronologically.
func EOD(ctx context.Context, ticker string, r Range, period Period) ([]Candle, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	if period == "" {
		period = Daily
	}
	query := r.Values()
	query.Set("period", string(period))
	var candles []Candle
	if err := getJSON(ctx, "/eod/"+url.PathEscape(ticker), query, &candles); err != nil {
		return nil, err
	}
	slices.SortFunc(candles, func(a, b Candle) bool { return a.Date.Before(b.Date) })
	logging.Infof(ctx, "EODHD: fetched %d EOD quotes for %s", len(candles), ticker)
	return candles, nil
}

// RealTimeQuote is the last known quote of a ticker, delayed by the vendor
// according to the account tier.
type RealTimeQuote struct {
	Code          string  `json:"code"`      // the requested ticker
	Timestamp     int64   `json:"timestamp"` // Unix seconds of the quote
	GMTOffset     int     `json:"gmtoffset"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"` // the last price
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_p"`
	Volume        int64   `json:"volume"`
}

// Time of the quote in UTC.
func (q *RealTimeQuote) Time() time.Time {
	return time.Unix(q.Timestamp, 0).UTC()
}

// RealTime fetches the latest quote for the ticker.
func RealTime(ctx context.Context, ticker string) (*RealTimeQuote, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	var quote RealTimeQuote
	if err := getJSON(ctx, "/real-time/"+url.PathEscape(ticker), nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Dividend is a single cash dividend. Date is the ex-dividend date; the
// remaining dates may be zero when the vendor doesn't know them.
type Dividend struct {
	Date            db.Date `json:"date"`
	DeclarationDate db.Date `json:"declarationDate"`
	RecordDate      db.Date `json:"recordDate"`
	PaymentDate     db.Date `json:"paymentDate"`
	Period          string  `json:"period"` // e.g. "Quarterly"
	Value           float64 `json:"value"`  // split-adjusted amount per share
	UnadjustedValue float64 `json:"unadjustedValue"`
	Currency        string  `json:"currency"`
}

// Dividends fetches the dividend history for the ticker within the range,
// sorted chronologically by ex-dividend date.
func Dividends(ctx context.Context, ticker string, r Range) ([]Dividend, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	var dividends []Dividend
	if err := getJSON(ctx, "/div/"+url.PathEscape(ticker), r.Values(), &dividends); err != nil {
		return nil, err
	}
	slices.SortFunc(dividends, func(a, b Dividend) bool { return a.Date.Before(b.Date) })
	logging.Infof(ctx, "EODHD: fetched %d dividends for %s", len(dividends), ticker)
	return dividends, nil
}

// Split is a single stock split. The vendor serializes the ratio as a
// fraction string such as "2.000000/1.000000".
type Split struct {
	Date        db.Date
	Numerator   float64
	Denominator float64
}

// Ratio is the share multiplication factor of the split, e.g. 2.0 for "2/1".
func (s Split) Ratio() float64 {
	if s.Denominator == 0 {
		return 0
	}
	return s.Numerator / s.Denominator
}

// splitJSON is the wire format of a single split.
type splitJSON struct {
	Date  db.Date `json:"date"`
	Split string  `json:"split"`
}

func parseSplitRatio(s string) (num, denom float64, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, errors.Reason("invalid split ratio: %q", s)
	}
	if num, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, errors.Annotate(err, "invalid numerator in split ratio %q", s)
	}
	if denom, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, errors.Annotate(err, "invalid denominator in split ratio %q", s)
	}
	return num, denom, nil
}

// Splits fetches the split history for the ticker within the range, sorted
// chronologically.
func Splits(ctx context.Context, ticker string, r Range) ([]Split, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	var raw []splitJSON
	if err := getJSON(ctx, "/splits/"+url.PathEscape(ticker), r.Values(), &raw); err != nil {
		return nil, err
	}
	splits := make([]Split, len(raw))
	for i, r := range raw {
		num, denom, err := parseSplitRatio(r.Split)
		if err != nil {
			return nil, errors.Annotate(err, "failed to parse split %d for %s", i, ticker)
		}
		splits[i] = Split{Date: r.Date, Numerator: num, Denominator: denom}
	}
	slices.SortFunc(splits, func(a, b Split) bool { return a.Date.Before(b.Date) })
	logging.Infof(ctx, "EODHD: fetched %d splits for %s", len(splits), ticker)
	return splits, nil
}
