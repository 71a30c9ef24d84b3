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

// Package table prints rows of downloaded data as aligned text or CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Row is implemented by any printable table row, such as the row types of the
// db package.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Table is a printable list of rows with an optional header.
type Table struct {
	header []string
	rows   []Row
}

// NewTable creates an empty Table with optional column headers. When headers
// are present, each added Row is expected to have the same number of columns.
func NewTable(header ...string) *Table {
	return &Table{header: header}
}

// AddRow appends one or more rows to the table.
func (t *Table) AddRow(rows ...Row) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// NumRows currently in the table.
func (t *Table) NumRows() int { return len(t.rows) }

// WriteCSV writes the table to w in CSV format, header first when present.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if len(t.header) > 0 {
		if err := cw.Write(t.header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i, r := range t.rows {
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the table as space-aligned text columns.
func (t *Table) WriteText(w io.Writer) error {
	widths := make([]int, len(t.header))
	update := func(row []string) error {
		if len(widths) == 0 {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(widths))
		}
		for i, cell := range row {
			if widths[i] < len(cell) {
				widths[i] = len(cell)
			}
		}
		return nil
	}
	if len(t.header) > 0 {
		if err := update(t.header); err != nil {
			return err
		}
	}
	for i, r := range t.rows {
		if err := update(r.CSV()); err != nil {
			return errors.Annotate(err, "invalid row %d", i)
		}
	}

	write := func(row []string) error {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return errors.Annotate(err, "failed to write a text row")
		}
		return nil
	}
	if len(t.header) > 0 {
		if err := write(t.header); err != nil {
			return err
		}
	}
	for _, r := range t.rows {
		if err := write(r.CSV()); err != nil {
			return err
		}
	}
	return nil
}
