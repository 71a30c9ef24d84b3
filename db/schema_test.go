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

package db

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSchema(t *testing.T) {
	t.Parallel()

	Convey("Date methods work", t, func() {
		Convey("NewDateFromString", func() {
			Convey("plain date", func() {
				d, err := NewDateFromString("2021-05-10")
				So(err, ShouldBeNil)
				So(d, ShouldResemble, NewDate(2021, 5, 10))
			})

			Convey("date with time", func() {
				d, err := NewDateFromString("2021-05-10 14:35:00")
				So(err, ShouldBeNil)
				So(d, ShouldResemble, NewDate(2021, 5, 10))
			})

			Convey("missing date markers parse to zero value", func() {
				for _, s := range []string{"", "0000-00-00"} {
					d, err := NewDateFromString(s)
					So(err, ShouldBeNil)
					So(d.IsZero(), ShouldBeTrue)
				}
			})

			Convey("garbage fails", func() {
				_, err := NewDateFromString("May 10, 2021")
				So(err, ShouldNotBeNil)
			})
		})

		Convey("String round-trips", func() {
			d := NewDate(2021, 5, 10)
			d2, err := NewDateFromString(d.String())
			So(err, ShouldBeNil)
			So(d2, ShouldResemble, d)
		})

		Convey("JSON round-trips", func() {
			type wrapper struct {
				D Date `json:"d"`
			}
			j, err := json.Marshal(wrapper{NewDate(2021, 5, 10)})
			So(err, ShouldBeNil)
			So(string(j), ShouldEqual, `{"d":"2021-05-10"}`)
			var w wrapper
			So(json.Unmarshal(j, &w), ShouldBeNil)
			So(w.D, ShouldResemble, NewDate(2021, 5, 10))
		})

		Convey("JSON null-ish dates unmarshal to zero value", func() {
			var d Date
			So(json.Unmarshal([]byte(`"0000-00-00"`), &d), ShouldBeNil)
			So(d.IsZero(), ShouldBeTrue)
		})

		Convey("comparisons", func() {
			d := NewDate(2021, 5, 10)
			So(d.Before(NewDate(2021, 5, 11)), ShouldBeTrue)
			So(d.Before(NewDate(2021, 6, 1)), ShouldBeTrue)
			So(d.Before(NewDate(2022, 1, 1)), ShouldBeTrue)
			So(d.Before(d), ShouldBeFalse)
			So(d.After(NewDate(2021, 5, 9)), ShouldBeTrue)
			So(d.After(d), ShouldBeFalse)
		})

		Convey("InRange", func() {
			d := NewDate(2021, 5, 10)
			So(d.InRange(NewDate(2021, 1, 1), NewDate(2021, 12, 31)), ShouldBeTrue)
			So(d.InRange(Date{}, NewDate(2021, 12, 31)), ShouldBeTrue)
			So(d.InRange(NewDate(2021, 1, 1), Date{}), ShouldBeTrue)
			So(d.InRange(Date{}, Date{}), ShouldBeTrue)
			So(d.InRange(NewDate(2021, 5, 11), Date{}), ShouldBeFalse)
			So(d.InRange(Date{}, NewDate(2021, 5, 9)), ShouldBeFalse)
			So(Date{}.InRange(Date{}, Date{}), ShouldBeFalse)
		})

		Convey("ToTime", func() {
			So(NewDate(2021, 5, 10).ToTime(),
				ShouldResemble, time.Date(2021, 5, 10, 0, 0, 0, 0, time.UTC))
		})
	})

	Convey("Row CSV methods work", t, func() {
		Convey("QuoteRow", func() {
			q := TestQuote(NewDate(2021, 5, 10), 10.0, 11.5, 9.5, 11.0, 10.5, 1500)
			So(len(q.CSV()), ShouldEqual, len(QuoteRowHeader()))
			So(q.CSV(), ShouldResemble,
				[]string{"2021-05-10", "10", "11.5", "9.5", "11", "10.5", "1500"})
		})

		Convey("DividendRow", func() {
			d := TestDividend(NewDate(2021, 5, 10), NewDate(2021, 5, 20), 0.82, "USD")
			So(len(d.CSV()), ShouldEqual, len(DividendRowHeader()))
			So(d.CSV(), ShouldResemble,
				[]string{"2021-05-10", "2021-05-20", "0000-00-00", "0.82", "USD"})
		})

		Convey("SplitRow", func() {
			s := TestSplit(NewDate(2021, 5, 10), 4, 1)
			So(s.Ratio(), ShouldEqual, 4.0)
			So(SplitRow{}.Ratio(), ShouldEqual, 0.0)
			So(len(s.CSV()), ShouldEqual, len(SplitRowHeader()))
			So(s.CSV(), ShouldResemble, []string{"2021-05-10", "4/1"})
		})

		Convey("TickerRow", func() {
			r := TickerRow{Name: "Test Co", Exchange: "US", Country: "USA",
				Currency: "USD", Type: "Common Stock", ISIN: "US0000000000"}
			So(len(r.CSV("TEST")), ShouldEqual, len(TickerRowHeader()))
			So(r.CSV("TEST")[0], ShouldEqual, "TEST")
		})
	})

	Convey("Metadata.UpdateQuotes", t, func() {
		var m Metadata
		m.UpdateQuotes([]QuoteRow{
			TestQuote(NewDate(2021, 5, 10), 10, 11, 9, 10.5, 10.2, 100),
			TestQuote(NewDate(2021, 5, 11), 10, 11, 9, 10.5, 10.2, 100),
		})
		m.UpdateQuotes([]QuoteRow{
			TestQuote(NewDate(2021, 5, 9), 10, 11, 9, 10.5, 10.2, 100),
		})
		So(m.NumQuotes, ShouldEqual, 3)
		So(m.Start, ShouldResemble, NewDate(2021, 5, 9))
		So(m.End, ShouldResemble, NewDate(2021, 5, 11))
	})
}
