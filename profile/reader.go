// Public domain.

package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reasons for a ParseError, for use with errors.Is.
var (
	ErrMissingHeader   = errors.New("missing or malformed run header")
	ErrMissingMetadata = errors.New("missing PARAMETERS record")
	ErrNoData          = errors.New("no particle data rows")
	ErrBadField        = errors.New("bad numeric field")
)

// ParseError reports a .long file that cannot be used.
type ParseError struct {
	Path string // empty when reading from an io.Reader
	Line int    // 1-based; 0 when not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("profile: %s:%d: %v", path, e.Line, e.Err)
	}
	return fmt.Sprintf("profile: %s: %v", path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Markers of the .long format.
const (
	markerParameters = "PARAMETERS"
	markerFit        = "FIT"
	markerEnergy     = "ENERGY"
	markerDeposit    = "DEPOSIT"
)

// header lines: the run header, then two descriptive lines.
const headerLines = 3

// field of the run header holding the step count.
const rowsField = 3

// fields of the PARAMETERS record.
const (
	paramX0     = 3
	paramXmax   = 4
	paramLambda = 5
)

// ReadFile reads the .long file at path.
func ReadFile(path string) (*Profile, *Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()
	p, m, err := Read(f)
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Path = path
	}
	return p, m, err
}

// Read reads a .long file.
//
// The particle block supplies the profile.  Rows that are not exactly ten
// fields, rows containing a FIT field, and everything after the ENERGY
// DEPOSIT header are not particle data and are skipped.  The last
// PARAMETERS record supplies the metadata.
func Read(r io.Reader) (*Profile, *Metadata, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var (
		p       Profile
		m       *Metadata
		rows    int
		deposit bool
		line    int
	)
	for sc.Scan() {
		line++
		cols := strings.Fields(sc.Text())
		if line == 1 {
			if len(cols) <= rowsField {
				return nil, nil, &ParseError{Line: line, Err: ErrMissingHeader}
			}
			n, err := strconv.Atoi(cols[rowsField])
			if err != nil {
				return nil, nil, &ParseError{Line: line, Err: fmt.Errorf("%w: %v", ErrMissingHeader, err)}
			}
			rows = n
			continue
		}
		if line <= headerLines {
			continue
		}
		if contains(cols, markerEnergy) && contains(cols, markerDeposit) {
			deposit = true
		}
		if contains(cols, markerParameters) {
			md, err := parseParameters(cols, rows)
			if err != nil {
				return nil, nil, &ParseError{Line: line, Err: err}
			}
			m = &md
		}
		if len(cols) != rowColumns || contains(cols, markerFit) || deposit {
			continue
		}
		row, err := parseRow(cols)
		if err != nil {
			return nil, nil, &ParseError{Line: line, Err: err}
		}
		p.Append(row)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, &ParseError{Line: line, Err: err}
	}
	switch {
	case line == 0:
		return nil, nil, &ParseError{Err: ErrMissingHeader}
	case m == nil:
		return nil, nil, &ParseError{Err: ErrMissingMetadata}
	case p.Len() == 0:
		return nil, nil, &ParseError{Err: ErrNoData}
	}
	return &p, m, nil
}

func contains(cols []string, marker string) bool {
	for _, c := range cols {
		if c == marker {
			return true
		}
	}
	return false
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadField, s)
	}
	return v, nil
}

func parseRow(cols []string) (Row, error) {
	var r Row
	for i, f := range r.fields() {
		v, err := parseFloat(cols[i])
		if err != nil {
			return Row{}, err
		}
		*f = v
	}
	return r, nil
}

func parseParameters(cols []string, rows int) (Metadata, error) {
	if len(cols) <= paramLambda {
		return Metadata{}, fmt.Errorf("%w: %d fields", ErrMissingMetadata, len(cols))
	}
	var v [3]float64
	for i, c := range []int{paramX0, paramXmax, paramLambda} {
		f, err := parseFloat(cols[c])
		if err != nil {
			return Metadata{}, err
		}
		v[i] = f
	}
	return newMetadata(rows, v[0], v[1], v[2]), nil
}
