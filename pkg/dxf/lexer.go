package dxf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tag is one group-code/value pair from a DXF stream. The ASCII DXF
// format is a flat sequence of such pairs: an integer group code on one
// line and its value on the next.
type Tag struct {
	Code  int
	Value string
}

// EOF is the sentinel tag returned once the input is exhausted.
var eofTag = Tag{Code: -1}

// IsEOF reports whether the tag marks the end of the input.
func (t Tag) IsEOF() bool { return t.Code == -1 }

// Float parses the tag value as a floating point number, returning 0 on
// malformed input (DXF writers occasionally emit junk in optional fields).
func (t Tag) Float() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	if err != nil {
		return 0
	}
	return v
}

// Int parses the tag value as an integer, returning 0 on malformed input.
func (t Tag) Int() int {
	v, err := strconv.Atoi(strings.TrimSpace(t.Value))
	if err != nil {
		return 0
	}
	return v
}

// TagReader reads group-code/value pairs from an io.Reader with one tag
// of lookahead, which the entity parsers use to detect the start of the
// next entity (group code 0) without consuming it.
type TagReader struct {
	scanner *bufio.Scanner
	peeked  *Tag
	line    int
}

// NewTagReader creates a TagReader over r.
func NewTagReader(r io.Reader) *TagReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &TagReader{scanner: sc}
}

// Next returns the next tag, or the EOF tag when the input ends.
func (tr *TagReader) Next() (Tag, error) {
	if tr.peeked != nil {
		t := *tr.peeked
		tr.peeked = nil
		return t, nil
	}
	return tr.read()
}

// Peek returns the next tag without consuming it.
func (tr *TagReader) Peek() (Tag, error) {
	if tr.peeked == nil {
		t, err := tr.read()
		if err != nil {
			return Tag{}, err
		}
		tr.peeked = &t
	}
	return *tr.peeked, nil
}

func (tr *TagReader) read() (Tag, error) {
	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return Tag{}, err
		}
		return eofTag, nil
	}
	tr.line++
	codeLine := strings.TrimSpace(tr.scanner.Text())

	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return Tag{}, err
		}
		return Tag{}, fmt.Errorf("line %d: group code %q has no value line", tr.line, codeLine)
	}
	tr.line++
	// Group code lines are numeric; values keep interior whitespace but
	// drop the trailing CR left behind by CRLF files.
	value := strings.TrimRight(tr.scanner.Text(), "\r")

	code, err := strconv.Atoi(codeLine)
	if err != nil {
		return Tag{}, fmt.Errorf("line %d: invalid group code %q", tr.line-1, codeLine)
	}
	return Tag{Code: code, Value: value}, nil
}
