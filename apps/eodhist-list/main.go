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

// Command eodhist-list prints tables from a database created by
// eodhist-download.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/eodhist/stats"
	"github.com/stockparfait/eodhist/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

type Flags struct {
	DBDir    string // default: ~/.eodhist
	DBName   string // default: eodhd
	LogLevel logging.Level
	// Exactly one of the following must be present.
	Tickers   bool
	Quotes    string // ticker to print quotes for
	Dividends string // ticker to print dividends for
	Splits    string // ticker to print splits for
	Stats     string // ticker to print log-return statistics for
	CSV       bool   // dump CSV format; default: text
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("eodhist-list", flag.ExitOnError)
	fs.StringVar(&flags.DBDir, "cache",
		filepath.Join(os.Getenv("HOME"), ".eodhist"),
		"path to databases")
	fs.StringVar(&flags.DBName, "db", "eodhd", "database name")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.Tickers, "tickers", false, "print all ticker rows")
	fs.StringVar(&flags.Quotes, "quotes", "", "ticker to print quotes for")
	fs.StringVar(&flags.Dividends, "dividends", "", "ticker to print dividends for")
	fs.StringVar(&flags.Splits, "splits", "", "ticker to print splits for")
	fs.StringVar(&flags.Stats, "stats", "", "ticker to print log-return statistics for")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	kinds := 0
	if flags.Tickers {
		kinds++
	}
	for _, s := range []string{flags.Quotes, flags.Dividends, flags.Splits, flags.Stats} {
		if s != "" {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.Reason(
			"expected exactly one of -tickers, -quotes, -dividends, -splits or -stats")
	}
	return &flags, err
}

func tickersTable(database *db.Database) (*table.Table, error) {
	tickers, err := database.Tickers(db.NewConstraints())
	if err != nil {
		return nil, errors.Annotate(err, "failed to read tickers")
	}
	tbl := table.NewTable(db.TickerRowHeader()...)
	for _, t := range tickers {
		r, err := database.TickerRow(t)
		if err != nil {
			return nil, errors.Annotate(err, "failed to read ticker row for %s", t)
		}
		tbl.AddRow(tickerRow{t, r})
	}
	return tbl, nil
}

// tickerRow adapts a db.TickerRow and its ticker to a table.Row.
type tickerRow struct {
	ticker string
	row    db.TickerRow
}

func (r tickerRow) CSV() []string { return r.row.CSV(r.ticker) }

func quotesTable(database *db.Database, ticker string) (*table.Table, error) {
	quotes, err := database.Quotes(ticker, db.NewConstraints())
	if err != nil {
		return nil, errors.Annotate(err, "failed to read quotes for %s", ticker)
	}
	tbl := table.NewTable(db.QuoteRowHeader()...)
	for _, q := range quotes {
		tbl.AddRow(q)
	}
	return tbl, nil
}

func dividendsTable(database *db.Database, ticker string) (*table.Table, error) {
	dividends, err := database.Dividends(ticker, db.NewConstraints())
	if err != nil {
		return nil, errors.Annotate(err, "failed to read dividends for %s", ticker)
	}
	tbl := table.NewTable(db.DividendRowHeader()...)
	for _, d := range dividends {
		tbl.AddRow(d)
	}
	return tbl, nil
}

func splitsTable(database *db.Database, ticker string) (*table.Table, error) {
	splits, err := database.Splits(ticker, db.NewConstraints())
	if err != nil {
		return nil, errors.Annotate(err, "failed to read splits for %s", ticker)
	}
	tbl := table.NewTable(db.SplitRowHeader()...)
	for _, s := range splits {
		tbl.AddRow(s)
	}
	return tbl, nil
}

// statRow is a single named statistic for table printouts.
type statRow struct {
	name  string
	value string
}

func (r statRow) CSV() []string { return []string{r.name, r.value} }

func statsTable(database *db.Database, ticker string) (*table.Table, error) {
	quotes, err := database.Quotes(ticker, db.NewConstraints())
	if err != nil {
		return nil, errors.Annotate(err, "failed to read quotes for %s", ticker)
	}
	s, err := stats.Summarize(quotes)
	if err != nil {
		return nil, errors.Annotate(err, "failed to compute statistics for %s", ticker)
	}
	tbl := table.NewTable("Statistic", "Value")
	tbl.AddRow(
		statRow{"Samples", fmt.Sprintf("%d", s.NumSamples)},
		statRow{"Mean", fmt.Sprintf("%.6g", s.Mean)},
		statRow{"Sigma", fmt.Sprintf("%.6g", s.Sigma)},
		statRow{"Skewness", fmt.Sprintf("%.6g", s.Skewness)},
		statRow{"Kurtosis", fmt.Sprintf("%.6g", s.Kurtosis)},
		statRow{"Annualized Mean", fmt.Sprintf("%.6g", s.AnnualizedMean())},
		statRow{"Annualized Sigma", fmt.Sprintf("%.6g", s.AnnualizedSigma())},
	)
	return tbl, nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	var tbl *table.Table
	var err error
	database := db.NewDatabase(flags.DBDir, flags.DBName)
	switch {
	case flags.Tickers:
		tbl, err = tickersTable(database)
	case flags.Quotes != "":
		tbl, err = quotesTable(database, flags.Quotes)
	case flags.Dividends != "":
		tbl, err = dividendsTable(database, flags.Dividends)
	case flags.Splits != "":
		tbl, err = splitsTable(database, flags.Splits)
	case flags.Stats != "":
		tbl, err = statsTable(database, flags.Stats)
	}
	if err != nil {
		return errors.Annotate(err, "failed to read data")
	}
	if tbl == nil {
		return errors.Reason("no data")
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
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

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
