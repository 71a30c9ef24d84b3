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
	"net/url"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// Exchange is an entry of the exchanges list. OperatingMIC may contain
// several comma-separated MIC codes for the same exchange.
type Exchange struct {
	Name         string `json:"Name"`
	Code         string `json:"Code"`
	OperatingMIC string `json:"OperatingMIC"`
	Country      string `json:"Country"`
	Currency     string `json:"Currency"`
	CountryISO2  string `json:"CountryISO2"`
	CountryISO3  string `json:"CountryISO3"`
}

// Exchanges fetches the list of all exchanges supported by the vendor.
func Exchanges(ctx context.Context) ([]Exchange, error) {
	var exchanges []Exchange
	if err := getJSON(ctx, "/exchanges-list/", nil, &exchanges); err != nil {
		return nil, err
	}
	logging.Infof(ctx, "EODHD: fetched %d exchanges", len(exchanges))
	return exchanges, nil
}

// Ticker is an entry of an exchange's symbol list.
type Ticker struct {
	Code     string `json:"Code"` // the symbol without the exchange suffix
	Name     string `json:"Name"`
	Country  string `json:"Country"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Type     string `json:"Type"` // e.g. "Common Stock", "ETF", "FUND"
	Isin     string `json:"Isin"`
}

// ExchangeSymbols fetches the list of tickers of the exchange given by its
// EODHD exchange code, e.g. "US". When delisted is true, the list contains
// the delisted tickers instead of the active ones.
func ExchangeSymbols(ctx context.Context, exchange string, delisted bool) ([]Ticker, error) {
	if err := checkTicker(exchange); err != nil {
		return nil, errors.Annotate(err, "invalid exchange code")
	}
	var query url.Values
	if delisted {
		query = make(url.Values)
		query.Set("delisted", "1")
	}
	var tickers []Ticker
	path := "/exchange-symbol-list/" + url.PathEscape(exchange)
	if err := getJSON(ctx, path, query, &tickers); err != nil {
		return nil, err
	}
	logging.Infof(ctx, "EODHD: fetched %d tickers for exchange %s", len(tickers), exchange)
	return tickers, nil
}

// SearchResult is an entry of the search endpoint's response.
type SearchResult struct {
	Code              string  `json:"Code"`
	Exchange          string  `json:"Exchange"`
	Name              string  `json:"Name"`
	Type              string  `json:"Type"`
	Country           string  `json:"Country"`
	Currency          string  `json:"Currency"`
	ISIN              string  `json:"ISIN"`
	PreviousClose     float64 `json:"previousClose"`
	PreviousCloseDate db.Date `json:"previousCloseDate"`
}

// Search fetches the tickers matching the free-form query, which may be a
// symbol, a company name or an ISIN.
func Search(ctx context.Context, q string) ([]SearchResult, error) {
	if err := checkTicker(q); err != nil {
		return nil, errors.Annotate(err, "invalid search query")
	}
	var results []SearchResult
	if err := getJSON(ctx, "/search/"+url.PathEscape(q), nil, &results); err != nil {
		return nil, err
	}
	logging.Infof(ctx, "EODHD: search %q returned %d results", q, len(results))
	return results, nil
}
