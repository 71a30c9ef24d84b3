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

package stats

import (
	"math"
	"testing"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func testQuotes(adjusted ...float32) []db.QuoteRow {
	quotes := make([]db.QuoteRow, len(adjusted))
	for i, p := range adjusted {
		quotes[i] = db.QuoteRow{
			Date:          db.NewDate(2020, 1, uint8(i+1)),
			AdjustedClose: p,
		}
	}
	return quotes
}

func TestStats(t *testing.T) {
	t.Parallel()

	Convey("LogReturns", t, func() {
		Convey("computes log(p2/p1)", func() {
			returns, err := LogReturns(testQuotes(100, 110, 99))
			So(err, ShouldBeNil)
			So(len(returns), ShouldEqual, 2)
			So(testutil.Round(returns[0], 6), ShouldEqual,
				testutil.Round(math.Log(1.1), 6))
			So(testutil.Round(returns[1], 6), ShouldEqual,
				testutil.Round(math.Log(0.9), 6))
		})

		Convey("requires at least two quotes", func() {
			_, err := LogReturns(testQuotes(100))
			So(err, ShouldNotBeNil)
		})

		Convey("rejects non-positive prices", func() {
			_, err := LogReturns(testQuotes(100, 0, 99))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Summarize", t, func() {
		Convey("constant growth has zero sigma", func() {
			s, err := Summarize(testQuotes(100, 110, 121, 133.1))
			So(err, ShouldBeNil)
			So(s.NumSamples, ShouldEqual, 3)
			So(testutil.Round(s.Mean, 6), ShouldEqual,
				testutil.Round(math.Log(1.1), 6))
			So(testutil.Round(s.Sigma+1.0, 6), ShouldEqual, 1.0)
		})

		Convey("symmetric returns have zero mean and skew", func() {
			s, err := Summarize(testQuotes(100, 110, 100, 110, 100))
			So(err, ShouldBeNil)
			So(s.NumSamples, ShouldEqual, 4)
			So(testutil.Round(s.Mean+1.0, 6), ShouldEqual, 1.0)
			So(testutil.Round(s.Skewness+1.0, 6), ShouldEqual, 1.0)
			So(s.Sigma, ShouldBeGreaterThan, 0.0)
		})

		Convey("annualized values scale by trading days", func() {
			s := Summary{Mean: 0.001, Sigma: 0.02}
			So(testutil.Round(s.AnnualizedMean(), 4), ShouldEqual, testutil.Round(0.252, 4))
			So(testutil.Round(s.AnnualizedSigma(), 4), ShouldEqual,
				testutil.Round(0.02*math.Sqrt(252.0), 4))
		})

		Convey("fails on too few quotes", func() {
			_, err := Summarize(testQuotes(100))
			So(err, ShouldNotBeNil)
		})
	})
}
