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

// Command eodhist-download downloads quotes, dividends and splits from EODHD
// into a local database readable by eodhist-list.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/eodhist/eodhd"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	DBDir    string // default: ~/.eodhist
	DBName   string // default: eodhd
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("eodhist-download", flag.ExitOnError)
	fs.StringVar(&flags.DBDir, "cache",
		filepath.Join(os.Getenv("HOME"), ".eodhist"),
		"path to the cache directory with config.toml")
	fs.StringVar(&flags.DBName, "db", "eodhd", "database name within the cache")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	return &flags, err
}

type Config struct {
	Key         string   `toml:"key"`      // API token for EODHD
	Tickers     []string `toml:"tickers"`  // tickers as "SYMBOL.EXCHANGE"
	Exchange    string   `toml:"exchange"` // download the exchange's entire list
	Delisted    bool     `toml:"delisted"` // with exchange: delisted tickers
	From        string   `toml:"from"`     // "YYYY-MM-DD", optional
	To          string   `toml:"to"`       // "YYYY-MM-DD", optional
	Period      string   `toml:"period"`   // "d" (default), "w" or "m"
	Parallelism int      `toml:"parallelism"`

	dateRange eodhd.Range
	period    eodhd.Period
}

func (c *Config) validate() error {
	if c.Key == "" {
		return errors.Reason("key must be nonempty")
	}
	if len(c.Tickers) == 0 && c.Exchange == "" {
		return errors.Reason("at least one of tickers or exchange must be set")
	}
	var err error
	if c.dateRange.From, err = db.NewDateFromString(c.From); err != nil {
		return errors.Annotate(err, "invalid 'from' date")
	}
	if c.dateRange.To, err = db.NewDateFromString(c.To); err != nil {
		return errors.Annotate(err, "invalid 'to' date")
	}
	switch p := eodhd.Period(c.Period); p {
	case "", eodhd.Daily:
		c.period = eodhd.Daily
	case eodhd.Weekly, eodhd.Monthly:
		c.period = p
	default:
		return errors.Reason("invalid period: %q", c.Period)
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 2 * runtime.NumCPU()
	}
	return nil
}

func parseConfig(dbdir string) (*Config, error) {
	filePath := filepath.Join(dbdir, "config.toml")
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretEODHDToken"
tickers = ["AAPL.US", "MSFT.US"]
from = "2010-01-01"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if err := c.validate(); err != nil {
		return nil, errors.Annotate(err, "invalid config %s", filePath)
	}
	return &c, nil
}

func quoteRows(candles []eodhd.Candle) []db.QuoteRow {
	rows := make([]db.QuoteRow, len(candles))
	for i, c := range candles {
		rows[i] = db.QuoteRow{
			Date:          c.Date,
			Open:          float32(c.Open),
			High:          float32(c.High),
			Low:           float32(c.Low),
			Close:         float32(c.Close),
			AdjustedClose: float32(c.AdjustedClose),
			Volume:        c.Volume,
		}
	}
	return rows
}

func dividendRows(dividends []eodhd.Dividend) []db.DividendRow {
	rows := make([]db.DividendRow, len(dividends))
	for i, d := range dividends {
		rows[i] = db.DividendRow{
			Date:     d.Date,
			Payment:  d.PaymentDate,
			Record:   d.RecordDate,
			Value:    float32(d.Value),
			Currency: d.Currency,
		}
	}
	return rows
}

func splitRows(splits []eodhd.Split) []db.SplitRow {
	rows := make([]db.SplitRow, len(splits))
	for i, s := range splits {
		rows[i] = db.SplitRow{
			Date:        s.Date,
			Numerator:   float32(s.Numerator),
			Denominator: float32(s.Denominator),
		}
	}
	return rows
}

// tickerTable resolves the full list of tickers to download with their table
// rows. Explicitly configured tickers get a minimal row derived from the
// "SYMBOL.EXCHANGE" format.
func tickerTable(ctx context.Context, c *Config) (map[string]db.TickerRow, error) {
	tickers := make(map[string]db.TickerRow)
	if c.Exchange != "" {
		listed, err := eodhd.ExchangeSymbols(ctx, c.Exchange, c.Delisted)
		if err != nil {
			return nil, errors.Annotate(err, "failed to list exchange %s", c.Exchange)
		}
		for _, t := range listed {
			tickers[t.Code+"."+t.Exchange] = db.TickerRow{
				Name:     t.Name,
				Exchange: t.Exchange,
				Country:  t.Country,
				Currency: t.Currency,
				Type:     t.Type,
				ISIN:     t.Isin,
			}
		}
	}
	for _, t := range c.Tickers {
		var exchange string
		if i := strings.LastIndex(t, "."); i >= 0 {
			exchange = t[i+1:]
		}
		if _, ok := tickers[t]; !ok {
			tickers[t] = db.TickerRow{Exchange: exchange}
		}
	}
	return tickers, nil
}

// tickerData is the result of downloading a single ticker.
type tickerData struct {
	Ticker    string
	Quotes    []db.QuoteRow
	Dividends []db.DividendRow
	Splits    []db.SplitRow
	Err       error
}

func downloadTicker(ctx context.Context, c *Config, ticker string) tickerData {
	data := tickerData{Ticker: ticker}
	candles, err := eodhd.EOD(ctx, ticker, c.dateRange, c.period)
	if err != nil {
		data.Err = errors.Annotate(err, "failed to download quotes for %s", ticker)
		return data
	}
	data.Quotes = quoteRows(candles)
	dividends, err := eodhd.Dividends(ctx, ticker, c.dateRange)
	if err != nil {
		data.Err = errors.Annotate(err, "failed to download dividends for %s", ticker)
		return data
	}
	data.Dividends = dividendRows(dividends)
	splits, err := eodhd.Splits(ctx, ticker, c.dateRange)
	if err != nil {
		data.Err = errors.Annotate(err, "failed to download splits for %s", ticker)
		return data
	}
	data.Splits = splitRows(splits)
	return data
}

func download(ctx context.Context, flags *Flags) error {
	config, err := parseConfig(flags.DBDir)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	ctx = eodhd.UseClient(ctx, config.Key)

	tickerRows, err := tickerTable(ctx, config)
	if err != nil {
		return errors.Annotate(err, "failed to resolve tickers")
	}
	tickers := make([]string, 0, len(tickerRows))
	for t := range tickerRows {
		tickers = append(tickers, t)
	}

	database := db.NewDatabase(flags.DBDir, flags.DBName)
	if err := database.WriteTickers(tickerRows); err != nil {
		return errors.Annotate(err, "failed to write tickers")
	}

	f := func(ticker string) tickerData {
		return downloadTicker(ctx, config, ticker)
	}
	pm := iterator.ParallelMap(ctx, config.Parallelism, iterator.FromSlice(tickers), f)
	defer pm.Close()

	dividends := make(map[string][]db.DividendRow)
	splits := make(map[string][]db.SplitRow)
	succeeded := 0
	writeErr := iterator.Reduce[tickerData, error](pm, nil, func(d tickerData, acc error) error {
		if acc != nil {
			return acc
		}
		if d.Err != nil {
			logging.Warningf(ctx, "skipping %s: %s", d.Ticker, d.Err.Error())
			return nil
		}
		if err := database.WriteQuotes(d.Ticker, d.Quotes); err != nil {
			return errors.Annotate(err, "failed to write quotes for %s", d.Ticker)
		}
		if len(d.Dividends) > 0 {
			dividends[d.Ticker] = d.Dividends
		}
		if len(d.Splits) > 0 {
			splits[d.Ticker] = d.Splits
		}
		succeeded++
		return nil
	})
	if writeErr != nil {
		return writeErr
	}
	if succeeded == 0 {
		return errors.Reason("all %d tickers failed to download", len(tickers))
	}
	if err := database.WriteDividends(dividends); err != nil {
		return errors.Annotate(err, "failed to write dividends")
	}
	if err := database.WriteSplits(splits); err != nil {
		return errors.Annotate(err, "failed to write splits")
	}
	if err := database.WriteMetadata(); err != nil {
		return errors.Annotate(err, "failed to write metadata")
	}
	logging.Infof(ctx, "downloaded %d of %d tickers into %s",
		succeeded, len(tickers), flags.DBName)
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := download(ctx, flags); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
