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

// Constraints filter tickers and their time series on read. Zero value means
// no constraints.
type Constraints struct {
	Tickers        map[string]struct{}
	ExcludeTickers map[string]struct{}
	Exchanges      map[string]struct{}
	Types          map[string]struct{}
	Start          Date
	End            Date
}

// NewConstraints creates a new Constraints with no constraints.
func NewConstraints() *Constraints {
	return &Constraints{
		Tickers:        make(map[string]struct{}),
		ExcludeTickers: make(map[string]struct{}),
		Exchanges:      make(map[string]struct{}),
		Types:          make(map[string]struct{}),
	}
}

// Ticker adds tickers to the constraints.
func (c *Constraints) Ticker(tickers ...string) *Constraints {
	for _, tk := range tickers {
		c.Tickers[tk] = struct{}{}
	}
	return c
}

// ExcludeTicker adds tickers to be ignored.
func (c *Constraints) ExcludeTicker(tickers ...string) *Constraints {
	for _, tk := range tickers {
		c.ExcludeTickers[tk] = struct{}{}
	}
	return c
}

// Exchange adds vendor exchange codes to the constraints.
func (c *Constraints) Exchange(exchanges ...string) *Constraints {
	for _, e := range exchanges {
		c.Exchanges[e] = struct{}{}
	}
	return c
}

// Type adds instrument types to the constraints, e.g. "Common Stock".
func (c *Constraints) Type(types ...string) *Constraints {
	for _, t := range types {
		c.Types[t] = struct{}{}
	}
	return c
}

// StartAt sets the start date of the Constraints, inclusive.
func (c *Constraints) StartAt(dt Date) *Constraints {
	c.Start = dt
	return c
}

// EndAt sets the end date of the Constraints, inclusive.
func (c *Constraints) EndAt(dt Date) *Constraints {
	c.End = dt
	return c
}

// CheckTicker whether the ticker name satisfies the constraints.
func (c *Constraints) CheckTicker(ticker string) bool {
	if len(c.ExcludeTickers) > 0 {
		if _, ok := c.ExcludeTickers[ticker]; ok {
			return false
		}
	}
	if len(c.Tickers) > 0 {
		if _, ok := c.Tickers[ticker]; !ok {
			return false
		}
	}
	return true
}

// CheckTickerRow whether the ticker's table row satisfies the constraints.
func (c *Constraints) CheckTickerRow(r TickerRow) bool {
	if len(c.Exchanges) > 0 {
		if _, ok := c.Exchanges[r.Exchange]; !ok {
			return false
		}
	}
	if len(c.Types) > 0 {
		if _, ok := c.Types[r.Type]; !ok {
			return false
		}
	}
	return true
}

// CheckDate checks that the date is within the constrained range. Both ends
// are inclusive.
func (c *Constraints) CheckDate(d Date) bool {
	if !c.Start.IsZero() && d.Before(c.Start) {
		return false
	}
	if !c.End.IsZero() && d.After(c.End) {
		return false
	}
	return true
}
