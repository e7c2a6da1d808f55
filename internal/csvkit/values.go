package csvkit

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	"github.com/retailops/stockparity/pkg/errors"
)

// ValueSet is a trimmed match set with optional case folding.
type ValueSet struct {
	fold   bool
	values map[string]struct{}
}

// NewValueSet returns an empty set. With fold, membership ignores case.
func NewValueSet(fold bool) *ValueSet {
	return &ValueSet{fold: fold, values: make(map[string]struct{})}
}

// Add inserts a value. Blank values are ignored.
func (s *ValueSet) Add(value string) {
	key := s.key(value)
	if key == "" {
		return
	}
	s.values[key] = struct{}{}
}

// Contains reports membership. Blank values never match.
func (s *ValueSet) Contains(value string) bool {
	key := s.key(value)
	if key == "" {
		return false
	}
	_, ok := s.values[key]
	return ok
}

// Len returns the number of distinct values.
func (s *ValueSet) Len() int {
	return len(s.values)
}

func (s *ValueSet) key(value string) string {
	key := strings.TrimSpace(value)
	if s.fold {
		key = strings.ToLower(key)
	}
	return key
}

// AddFile loads values from a file: a CSV whose header contains the
// given column, or plain lines. Blank lines and '#' comments are
// skipped in plain mode.
func (s *ValueSet) AddFile(path, column string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}

	if col, rows, ok := csvColumn(data, column); ok {
		for _, row := range rows {
			if col < len(row) {
				s.Add(row[col])
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.Add(line)
	}
	return scanner.Err()
}

// csvColumn parses data as headered comma CSV and locates column,
// reporting ok=false when the header does not contain it.
func csvColumn(data []byte, column string) (int, [][]string, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil || len(records) == 0 {
		return 0, nil, false
	}
	for i, name := range records[0] {
		if strings.TrimSpace(name) == column {
			return i, records[1:], true
		}
	}
	return 0, nil, false
}
