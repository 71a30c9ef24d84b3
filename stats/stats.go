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

// Package stats computes summary statistics of downloaded quote series for
// the list app.
package stats

import (
	"math"

	"github.com/stockparfait/eodhist/db"
	"github.com/stockparfait/errors"

	"gonum.org/v1/gonum/stat"
)

// tradingDays is the conventional number of trading days per year, used for
// annualizing daily volatility.
const tradingDays = 252.0

// LogReturns computes natural log-returns of the adjusted close prices,
// log(p[i+1]/p[i]). Quotes must be sorted chronologically. Quotes with a
// non-positive adjusted close are an error, since their log-price is
// undefined.
func LogReturns(quotes []db.QuoteRow) ([]float64, error) {
	if len(quotes) < 2 {
		return nil, errors.Reason("too few quotes: %d, need at least 2", len(quotes))
	}
	returns := make([]float64, len(quotes)-1)
	prev := float64(quotes[0].AdjustedClose)
	if prev <= 0 {
		return nil, errors.Reason("non-positive adjusted close %g on %s",
			prev, quotes[0].Date)
	}
	for i, q := range quotes[1:] {
		curr := float64(q.AdjustedClose)
		if curr <= 0 {
			return nil, errors.Reason("non-positive adjusted close %g on %s",
				curr, q.Date)
		}
		returns[i] = math.Log(curr / prev)
		prev = curr
	}
	return returns, nil
}

// Summary holds the sample statistics of a single ticker's daily log-returns.
type Summary struct {
	NumSamples int
	Mean       float64
	Sigma      float64 // sample standard deviation
	Skewness   float64
	Kurtosis   float64 // excess kurtosis; 0 for a Gaussian
}

// AnnualizedMean of the daily log-returns.
func (s Summary) AnnualizedMean() float64 {
	return s.Mean * tradingDays
}

// AnnualizedSigma is the annualized volatility of the daily log-returns.
func (s Summary) AnnualizedSigma() float64 {
	return s.Sigma * math.Sqrt(tradingDays)
}

// Summarize computes the Summary of a daily quote series, which must be
// sorted chronologically.
func Summarize(quotes []db.QuoteRow) (Summary, error) {
	returns, err := LogReturns(quotes)
	if err != nil {
		return Summary{}, errors.Annotate(err, "failed to compute log-returns")
	}
	return Summary{
		NumSamples: len(returns),
		Mean:       stat.Mean(returns, nil),
		Sigma:      stat.StdDev(returns, nil),
		Skewness:   stat.Skew(returns, nil),
		Kurtosis:   stat.ExKurtosis(returns, nil),
	}, nil
}
