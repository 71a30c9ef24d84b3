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
	"testing"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExchanges(t *testing.T) {
	Convey("Listing API calls work correctly", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()
		server.ResponseBody = []string{"[]"}

		ctx := fetch.UseClient(context.Background(), server.Client())
		URL = server.URL()
		ctx = UseClient(ctx, "testtoken")

		Convey("Exchanges", func() {
			server.ResponseBody = []string{`[
  {"Name": "Frankfurt Exchange", "Code": "F", "OperatingMIC": "XFRA",
   "Country": "Germany", "Currency": "EUR",
   "CountryISO2": "DE", "CountryISO3": "DEU"}
]`}
			exchanges, err := Exchanges(ctx)
			So(err, ShouldBeNil)
			So(exchanges, ShouldResemble, []Exchange{{
				Name:         "Frankfurt Exchange",
				Code:         "F",
				OperatingMIC: "XFRA",
				Country:      "Germany",
				Currency:     "EUR",
				CountryISO2:  "DE",
				CountryISO3:  "DEU",
			}})
			So(server.RequestPath, ShouldEqual, "/exchanges-list/")
		})

		Convey("ExchangeSymbols", func() {
			server.ResponseBody = []string{`[
  {"Code": "CDR", "Name": "CD PROJEKT SA", "Country": "Poland",
   "Exchange": "WAR", "Currency": "PLN", "Type": "Common Stock",
   "Isin": "PLOPTTC00011"}
]`}

			Convey("active tickers", func() {
				tickers, err := ExchangeSymbols(ctx, "WAR", false)
				So(err, ShouldBeNil)
				So(tickers, ShouldResemble, []Ticker{{
					Code:     "CDR",
					Name:     "CD PROJEKT SA",
					Country:  "Poland",
					Exchange: "WAR",
					Currency: "PLN",
					Type:     "Common Stock",
					Isin:     "PLOPTTC00011",
				}})
				So(server.RequestPath, ShouldEqual, "/exchange-symbol-list/WAR")
				So(server.RequestQuery.Get("delisted"), ShouldEqual, "")
			})

			Convey("delisted tickers", func() {
				_, err := ExchangeSymbols(ctx, "WAR", true)
				So(err, ShouldBeNil)
				So(server.RequestQuery.Get("delisted"), ShouldEqual, "1")
			})

			Convey("rejects an empty exchange code", func() {
				_, err := ExchangeSymbols(ctx, "", false)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("Search", func() {
			server.ResponseBody = []string{`[
  {"Code": "AAPL", "Exchange": "US", "Name": "Apple Inc", "Type": "Common Stock",
   "Country": "USA", "Currency": "USD", "ISIN": "US0378331005",
   "previousClose": 145.43, "previousCloseDate": "2022-06-24"}
]`}
			results, err := Search(ctx, "apple")
			So(err, ShouldBeNil)
			So(results, ShouldResemble, []SearchResult{{
				Code:              "AAPL",
				Exchange:          "US",
				Name:              "Apple Inc",
				Type:              "Common Stock",
				Country:           "USA",
				Currency:          "USD",
				ISIN:              "US0378331005",
				PreviousClose:     145.43,
				PreviousCloseDate: db.NewDate(2022, 6, 24),
			}})
			So(server.RequestPath, ShouldEqual, "/search/apple")
		})
	})
}
