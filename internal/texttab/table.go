// Package texttab lays out aligned plain-text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table collects cells row by row and lays them out in columns wide
// enough for their longest cell. Columns are separated by one space.
//
// Row and Cell return the Table so calls can be chained.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	value     string
	alignment align
}

type align int

const (
	alignLeft align = iota
	alignRight
)

// CellOption configures a single cell.
type CellOption func(c *cell)

var (
	Left  CellOption = func(c *cell) { c.alignment = alignLeft }
	Right CellOption = func(c *cell) { c.alignment = alignRight }
)

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell appends a cell to the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	last := len(t.rows) - 1
	t.rows[last] = append(t.rows[last], c)
	if n := len(t.rows[last]); n > t.cols {
		t.cols = n
	}
	return t
}

// Format lays out t and writes it to w. Trailing spaces are trimmed.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, row := range t.rows {
		for col, c := range row {
			if n := utf8.RuneCountInString(c.value); n > ws[col] {
				ws[col] = n
			}
		}
	}

	var sb strings.Builder
	for _, row := range t.rows {
		var line strings.Builder
		for col, c := range row {
			if col > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(c.alignment.pad(c.value, ws[col]))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	_, err := fmt.Fprint(w, sb.String())
	return err
}
