package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
)

const maxLineSize = 1024 * 1024 // 1MB

var (
	ErrMissingRevisionID = errors.New("missing revision id")
	ErrUnsupportedValue  = errors.New("unsupported value")
)

// valueRe matches a single-quoted string, a double-quoted string or None.
var valueRe = regexp.MustCompile(`^(?:'([^']*)'|"([^"]*)"|(None))$`)

// assignRe builds the matcher for `name [: annotation] = value [# comment]`.
func assignRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(name) + `\s*(?::[^=]*)?=\s*([^=\s].*?)\s*(?:#.*)?$`)
}

// Extractor pulls revision metadata out of text files.
type Extractor struct {
	fields   Fields
	revision *regexp.Regexp
	revises  *regexp.Regexp
}

func NewExtractor(fields Fields) *Extractor {
	return &Extractor{
		fields:   fields,
		revision: assignRe(fields.Revision),
		revises:  assignRe(fields.Revises),
	}
}

// Extract reads the file at path and returns its record.
func (e *Extractor) Extract(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	rec, err := e.Parse(f)
	rec.Path = path
	if err != nil {
		return rec, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Parse scans r for the revision assignments. Later assignments override
// earlier ones, the same as when the file is executed as a module.
func (e *Extractor) Parse(r io.Reader) (Record, error) {
	var rec Record
	var revision, revises string
	var haveRevision bool

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if m := e.revision.FindStringSubmatch(line); m != nil {
			v, ok, err := parseValue(m[1])
			if err != nil {
				return rec, fmt.Errorf("%s on line %d: %w", e.fields.Revision, lineNum, err)
			}
			revision, haveRevision = v, ok
			rec.Line = lineNum
			continue
		}
		if m := e.revises.FindStringSubmatch(line); m != nil {
			v, _, err := parseValue(m[1])
			if err != nil {
				return rec, fmt.Errorf("%s on line %d: %w", e.fields.Revises, lineNum, err)
			}
			revises = v
		}
	}
	if err := scanner.Err(); err != nil {
		return rec, err
	}

	if !haveRevision || revision == "" {
		return rec, fmt.Errorf("%s: %w", e.fields.Revision, ErrMissingRevisionID)
	}
	rec.RevisionID = revision
	rec.RevisesID = revises
	return rec, nil
}

// parseValue returns the string literal, or ok=false for None.
func parseValue(raw string) (string, bool, error) {
	m := valueRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false, fmt.Errorf("%w %q", ErrUnsupportedValue, raw)
	}
	if m[3] != "" {
		return "", false, nil
	}
	if m[1] != "" {
		return m[1], true, nil
	}
	return m[2], true, nil
}
