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

// Command eodhist-quote prints delayed real-time quotes for tickers given on
// the command line, or searches the vendor's instrument catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/stockparfait/eodhist/eodhd"
	"github.com/stockparfait/eodhist/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

type Flags struct {
	Token    string // required
	Search   string // search query instead of quotes
	CSV      bool   // dump CSV format; default: text
	LogLevel logging.Level
	Tickers  []string // positional arguments
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("eodhist-quote", flag.ExitOnError)
	fs.StringVar(&flags.Token, "token", "", "EODHD API token (required)")
	fs.StringVar(&flags.Search, "search", "", "search the instrument catalog instead of quoting")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.Tickers = fs.Args()
	if flags.Token == "" {
		return nil, errors.Reason("missing required -token argument")
	}
	if flags.Search == "" && len(flags.Tickers) == 0 {
		return nil, errors.Reason("expected -search or at least one ticker argument")
	}
	if flags.Search != "" && len(flags.Tickers) > 0 {
		return nil, errors.Reason("-search and ticker arguments are mutually exclusive")
	}
	return &flags, nil
}

// quoteRow adapts a RealTimeQuote to a table.Row.
type quoteRow struct {
	q *eodhd.RealTimeQuote
}

func quoteRowHeader() []string {
	return []string{"Ticker", "Time", "Last", "Prev. Close", "Change", "Change %", "Volume"}
}

func (r quoteRow) CSV() []string {
	return []string{
		r.q.Code,
		r.q.Time().Format("2006-01-02 15:04:05"),
		fmt.Sprintf("%g", r.q.Close),
		fmt.Sprintf("%g", r.q.PreviousClose),
		fmt.Sprintf("%g", r.q.Change),
		fmt.Sprintf("%.2f", r.q.ChangePercent),
		fmt.Sprintf("%d", r.q.Volume),
	}
}

// searchRow adapts a SearchResult to a table.Row.
type searchRow struct {
	r eodhd.SearchResult
}

func searchRowHeader() []string {
	return []string{"Ticker", "Exchange", "Name", "Type", "Currency", "ISIN"}
}

func (r searchRow) CSV() []string {
	return []string{r.r.Code, r.r.Exchange, r.r.Name, r.r.Type, r.r.Currency, r.r.ISIN}
}

func quotesTable(ctx context.Context, tickers []string) (*table.Table, error) {
	tbl := table.NewTable(quoteRowHeader()...)
	for _, ticker := range tickers {
		q, err := eodhd.RealTime(ctx, ticker)
		if err != nil {
			return nil, errors.Annotate(err, "failed to quote %s", ticker)
		}
		tbl.AddRow(quoteRow{q})
	}
	return tbl, nil
}

func searchTable(ctx context.Context, query string) (*table.Table, error) {
	results, err := eodhd.Search(ctx, query)
	if err != nil {
		return nil, errors.Annotate(err, "search failed for %q", query)
	}
	tbl := table.NewTable(searchRowHeader()...)
	for _, r := range results {
		tbl.AddRow(searchRow{r})
	}
	return tbl, nil
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	ctx = eodhd.UseClient(ctx, flags.Token)
	var tbl *table.Table
	var err error
	if flags.Search != "" {
		tbl, err = searchTable(ctx, flags.Search)
	} else {
		tbl, err = quotesTable(ctx, flags.Tickers)
	}
	if err != nil {
		return err
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

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
