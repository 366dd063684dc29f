package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fleetledger/fleetledger/internal/model"
)

// Table is an immutable snapshot of one stream: a header and ordered rows of
// named fields, as handed over by whatever fetched the data. Errors holds
// rows the reader could not decode; their slot in Rows is left blank so row
// numbers stay aligned with the source.
type Table struct {
	Stream model.Stream
	Header []string
	Rows   [][]string
	Errors []error
}

// ReadTable reads a CSV with a header row into a Table. Rows may be ragged;
// missing trailing cells read as blank. Stray quotes inside unquoted cells are
// kept as text. A row that still cannot be decoded becomes a *ParseError in
// t.Errors; only an unreadable header or an I/O failure rejects the stream.
func ReadTable(stream model.Stream, r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	t := Table{Stream: stream}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) && t.Header != nil {
			t.Errors = append(t.Errors, &ParseError{
				Stream: stream,
				Row:    len(t.Rows) + 2,
				Field:  "row",
				Err:    pe.Err,
			})
			t.Rows = append(t.Rows, nil)
			continue
		}
		if err != nil {
			return Table{}, fmt.Errorf("reading %s CSV: %w", stream, err)
		}
		if t.Header == nil {
			if len(rec) > 0 {
				rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			}
			t.Header = rec
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if t.Header != nil && t.Rows == nil {
		t.Rows = [][]string{}
	}
	return t, nil
}

// column describes one logical field and the header spellings that carry it.
type column struct {
	name     string
	aliases  []string
	required bool
}

// schema is the ordered column set for a stream.
type schema struct {
	stream  model.Stream
	columns []column
}

// layout maps logical field names to column indexes in a concrete table.
type layout map[string]int

// bind resolves the schema against a header. Missing required columns fail
// with a MissingColumnError listing all of them.
func (s schema) bind(header []string) (layout, error) {
	byHeader := make(map[string]int, len(header))
	for i, h := range header {
		key := foldHeader(h)
		if _, dup := byHeader[key]; !dup {
			byHeader[key] = i
		}
	}

	l := make(layout, len(s.columns))
	var missing []string
	for _, c := range s.columns {
		idx := -1
		for _, name := range append([]string{c.name}, c.aliases...) {
			if i, ok := byHeader[foldHeader(name)]; ok {
				idx = i
				break
			}
		}
		if idx >= 0 {
			l[c.name] = idx
			continue
		}
		if c.required {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Stream: s.stream, Missing: missing, Header: header}
	}
	return l, nil
}

// get returns the trimmed cell for field, or "" if the column is absent or the
// row is short.
func (l layout) get(row []string, field string) string {
	i, ok := l[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func foldHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "_")
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
