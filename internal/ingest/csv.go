package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a delimited text source. The delimiter is sniffed from the
// header line (comma, semicolon or tab); a UTF-8 BOM is dropped.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	first, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	t := &Table{Name: name, Format: FormatCSV}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", name, err)
		}
		if t.Header == nil {
			if blankRow(rec) {
				continue
			}
			t.Header = trimHeader(rec)
			continue
		}
		if blankRow(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if t.Header == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}
	return t, nil
}

// sniffDelimiter picks the most frequent candidate on the first line.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestN := ',', bytes.Count(head, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(head, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
