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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stockparfait/eodhist/eodhd"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	Convey("parseFlags", t, func() {
		Convey("tickers parse", func() {
			flags, err := parseFlags([]string{"-token", "testToken", "AAPL.US", "MSFT.US"})
			So(err, ShouldBeNil)
			So(flags.Token, ShouldEqual, "testToken")
			So(flags.Tickers, ShouldResemble, []string{"AAPL.US", "MSFT.US"})
		})

		Convey("search parses", func() {
			flags, err := parseFlags([]string{"-token", "testToken", "-search", "apple"})
			So(err, ShouldBeNil)
			So(flags.Search, ShouldEqual, "apple")
		})

		Convey("missing token fails", func() {
			_, err := parseFlags([]string{"AAPL.US"})
			So(err, ShouldNotBeNil)
		})

		Convey("no tickers and no search fails", func() {
			_, err := parseFlags([]string{"-token", "testToken"})
			So(err, ShouldNotBeNil)
		})

		Convey("both tickers and search fail", func() {
			_, err := parseFlags([]string{"-token", "testToken", "-search", "apple", "AAPL.US"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("run", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()

		ctx := fetch.UseClient(context.Background(), server.Client())
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		eodhd.URL = server.URL()

		Convey("quotes as CSV", func() {
			server.ResponseBody = []string{`{
  "code": "TEST.US", "timestamp": 1577998800, "gmtoffset": 0,
  "open": 10.0, "high": 10.6, "low": 9.9, "close": 10.5, "volume": 1500,
  "previousClose": 9.8, "change": 0.7, "change_p": 7.1429
}`}
			flags, err := parseFlags([]string{"-token", "testToken", "-csv", "TEST.US"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldEqual,
				"Ticker,Time,Last,Prev. Close,Change,Change %,Volume\n"+
					"TEST.US,2020-01-02 21:00:00,10.5,9.8,0.7,7.14,1500\n")
		})

		Convey("search as CSV", func() {
			server.ResponseBody = []string{`[
  {"Code": "AAPL", "Exchange": "US", "Name": "Apple Inc",
   "Type": "Common Stock", "Currency": "USD", "ISIN": "US0378331005"}
]`}
			flags, err := parseFlags([]string{"-token", "testToken", "-csv", "-search", "apple"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldEqual,
				"Ticker,Exchange,Name,Type,Currency,ISIN\n"+
					"AAPL,US,Apple Inc,Common Stock,USD,US0378331005\n")
		})
	})
}
