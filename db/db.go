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

// Package db implements a simple local database for downloaded EODHD data.
//
// A database is a directory with a tickers table, per-ticker quote series,
// dividend and split tables (all gob-encoded), and a metadata.json summary.
// The client library itself keeps no state; this package serves the download
// and list apps.
package db

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/stockparfait/errors"
)

func writeGob(fileName string, v interface{}) error {
	f, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotate(err, "failed to open file for writing: '%s'", fileName)
	}
	defer f.Close()
	enc := gob.NewEncoder(f)
	if err = enc.Encode(v); err != nil {
		return errors.Annotate(err, "failed to write to '%s'", fileName)
	}
	return nil
}

func readGob(fileName string, v interface{}) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Annotate(err, "failed to open file for reading: '%s'", fileName)
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if err = dec.Decode(v); err != nil {
		return errors.Annotate(err, "failed to read from '%s'", fileName)
	}
	return nil
}

// Database accesses a single database under cachePath/name. Tables loaded by
// the read methods are cached in memory; a Database instance is therefore not
// suitable for watching concurrent external modifications.
type Database struct {
	cachePath string
	name      string
	metadata  Metadata
	tickers   map[string]TickerRow
	dividends map[string][]DividendRow
	splits    map[string][]SplitRow
	quotes    map[string][]QuoteRow
}

// NewDatabase creates a Database accessor for the given cache directory and
// database name.
func NewDatabase(cachePath, name string) *Database {
	return &Database{
		cachePath: cachePath,
		name:      name,
		quotes:    make(map[string][]QuoteRow),
	}
}

func (db *Database) dbPath() string {
	return filepath.Join(db.cachePath, db.name)
}

func (db *Database) tickersFile() string {
	return filepath.Join(db.dbPath(), "tickers.gob")
}

func (db *Database) dividendsFile() string {
	return filepath.Join(db.dbPath(), "dividends.gob")
}

func (db *Database) splitsFile() string {
	return filepath.Join(db.dbPath(), "splits.gob")
}

func (db *Database) quotesFile(ticker string) string {
	return filepath.Join(db.dbPath(), "quotes", ticker+".gob")
}

func (db *Database) metadataFile() string {
	return filepath.Join(db.dbPath(), "metadata.json")
}

// WriteTickers saves the tickers table and records its size in the metadata.
func (db *Database) WriteTickers(tickers map[string]TickerRow) error {
	if err := os.MkdirAll(db.dbPath(), os.ModePerm); err != nil {
		return errors.Annotate(err, "failed to create database dir '%s'", db.dbPath())
	}
	if err := writeGob(db.tickersFile(), tickers); err != nil {
		return errors.Annotate(err, "failed to write tickers")
	}
	db.tickers = nil
	db.metadata.NumTickers = len(tickers)
	return nil
}

// WriteQuotes saves a single ticker's quote series, which must be sorted
// chronologically, and updates the metadata counters.
func (db *Database) WriteQuotes(ticker string, quotes []QuoteRow) error {
	if ticker == "" {
		return errors.Reason("ticker must be nonempty")
	}
	dir := filepath.Join(db.dbPath(), "quotes")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Annotate(err, "failed to create quotes dir '%s'", dir)
	}
	for i := 1; i < len(quotes); i++ {
		if quotes[i].Date.Before(quotes[i-1].Date) {
			return errors.Reason("quotes for %s are not sorted at index %d: %s < %s",
				ticker, i, quotes[i].Date, quotes[i-1].Date)
		}
	}
	if err := writeGob(db.quotesFile(ticker), quotes); err != nil {
		return errors.Annotate(err, "failed to write quotes for %s", ticker)
	}
	delete(db.quotes, ticker)
	db.metadata.UpdateQuotes(quotes)
	return nil
}

// WriteDividends saves the dividend series for all tickers.
func (db *Database) WriteDividends(dividends map[string][]DividendRow) error {
	if err := os.MkdirAll(db.dbPath(), os.ModePerm); err != nil {
		return errors.Annotate(err, "failed to create database dir '%s'", db.dbPath())
	}
	if err := writeGob(db.dividendsFile(), dividends); err != nil {
		return errors.Annotate(err, "failed to write dividends")
	}
	db.dividends = nil
	db.metadata.NumDividends = 0
	for _, ds := range dividends {
		db.metadata.NumDividends += len(ds)
	}
	return nil
}

// WriteSplits saves the split series for all tickers.
func (db *Database) WriteSplits(splits map[string][]SplitRow) error {
	if err := os.MkdirAll(db.dbPath(), os.ModePerm); err != nil {
		return errors.Annotate(err, "failed to create database dir '%s'", db.dbPath())
	}
	if err := writeGob(db.splitsFile(), splits); err != nil {
		return errors.Annotate(err, "failed to write splits")
	}
	db.splits = nil
	db.metadata.NumSplits = 0
	for _, ss := range splits {
		db.metadata.NumSplits += len(ss)
	}
	return nil
}

// WriteMetadata saves the metadata accumulated by the write methods. Call it
// last, after all the tables are written.
func (db *Database) WriteMetadata() error {
	f, err := os.OpenFile(db.metadataFile(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotate(err, "failed to open file for writing: '%s'",
			db.metadataFile())
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(db.metadata); err != nil {
		return errors.Annotate(err, "failed to write metadata")
	}
	return nil
}

// Metadata of the database, read from metadata.json.
func (db *Database) Metadata() (Metadata, error) {
	var m Metadata
	f, err := os.Open(db.metadataFile())
	if err != nil {
		return m, errors.Annotate(err, "failed to open file for reading: '%s'",
			db.metadataFile())
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&m); err != nil {
		return m, errors.Annotate(err, "failed to read metadata")
	}
	return m, nil
}

func (db *Database) cacheTickers() error {
	if db.tickers != nil {
		return nil
	}
	db.tickers = make(map[string]TickerRow)
	if err := readGob(db.tickersFile(), &db.tickers); err != nil {
		return errors.Annotate(err, "failed to read tickers")
	}
	return nil
}

// TickerRow for the given ticker. It is an error if the ticker is not in the
// tickers table.
func (db *Database) TickerRow(ticker string) (TickerRow, error) {
	if err := db.cacheTickers(); err != nil {
		return TickerRow{}, err
	}
	r, ok := db.tickers[ticker]
	if !ok {
		return TickerRow{}, errors.Reason("no such ticker in the DB: %s", ticker)
	}
	return r, nil
}

// Tickers returns the sorted list of tickers satisfying the constraints.
func (db *Database) Tickers(c *Constraints) ([]string, error) {
	if err := db.cacheTickers(); err != nil {
		return nil, err
	}
	tickers := []string{}
	for t, r := range db.tickers {
		if c.CheckTicker(t) && c.CheckTickerRow(r) {
			tickers = append(tickers, t)
		}
	}
	sort.Strings(tickers)
	return tickers, nil
}

// Quotes returns the ticker's quote series filtered by the constraints,
// sorted chronologically.
func (db *Database) Quotes(ticker string, c *Constraints) ([]QuoteRow, error) {
	cached, ok := db.quotes[ticker]
	if !ok {
		if err := readGob(db.quotesFile(ticker), &cached); err != nil {
			return nil, errors.Annotate(err, "failed to read quotes for %s", ticker)
		}
		db.quotes[ticker] = cached
	}
	quotes := []QuoteRow{}
	for _, q := range cached {
		if c.CheckDate(q.Date) {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

func (db *Database) cacheDividends() error {
	if db.dividends != nil {
		return nil
	}
	db.dividends = make(map[string][]DividendRow)
	if err := readGob(db.dividendsFile(), &db.dividends); err != nil {
		return errors.Annotate(err, "failed to read dividends")
	}
	return nil
}

// Dividends returns the ticker's dividend series filtered by the constraints.
func (db *Database) Dividends(ticker string, c *Constraints) ([]DividendRow, error) {
	if err := db.cacheDividends(); err != nil {
		return nil, err
	}
	dividends := []DividendRow{}
	for _, d := range db.dividends[ticker] {
		if c.CheckDate(d.Date) {
			dividends = append(dividends, d)
		}
	}
	return dividends, nil
}

func (db *Database) cacheSplits() error {
	if db.splits != nil {
		return nil
	}
	db.splits = make(map[string][]SplitRow)
	if err := readGob(db.splitsFile(), &db.splits); err != nil {
		return errors.Annotate(err, "failed to read splits")
	}
	return nil
}

// Splits returns the ticker's split series filtered by the constraints.
func (db *Database) Splits(ticker string, c *Constraints) ([]SplitRow, error) {
	if err := db.cacheSplits(); err != nil {
		return nil, err
	}
	splits := []SplitRow{}
	for _, s := range db.splits[ticker] {
		if c.CheckDate(s.Date) {
			splits = append(splits, s)
		}
	}
	return splits, nil
}
