// Package batchimport turns pasted multi-line text into account records.
//
// Two line formats are recognised, tried in order:
//
//	[Label:]username----password[----email[----emailPassword]]
//	username,password,nickname
//
// Each line either yields one complete account or one LineError; a bad line
// never aborts the batch.
package batchimport

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
)

const (
	separator = "----"
	comma     = ","
)

var (
	ErrNoDelimiter    = errors.New("line has neither \"----\" nor \",\" delimiter")
	ErrTooFewSegments = errors.New("separator format needs at least username and password")
	ErrSegmentCount   = errors.New("comma format needs exactly username,password,nickname")
	ErrLinePanic      = errors.New("line could not be parsed")
)

// LineError describes one rejected line. Line is 1-based and counts every
// physical line of the input, blank ones included.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Result is the outcome of one batch. SuccessCount+ErrorCount equals the
// number of non-blank lines and len(Accounts) == SuccessCount.
type Result struct {
	Accounts     []models.Account
	SuccessCount int
	ErrorCount   int
	Errors       []*LineError
}

// Parser parses batches. The zero value is not usable; use NewParser.
type Parser struct {
	newID func() string
}

// NewParser returns a Parser that stamps each record with newID().
// A nil newID falls back to random UUIDs.
func NewParser(newID func() string) *Parser {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Parser{newID: newID}
}

var defaultParser = NewParser(nil)

// Parse parses text with random UUID ids.
func Parse(text string) Result {
	return defaultParser.Parse(text)
}

// Parse splits text into lines (CR, LF or CRLF), skips blank ones and
// parses the rest independently.
func (p *Parser) Parse(text string) Result {
	var res Result

	for i, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		acc, err := p.parseLineSafe(line)
		if err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, &LineError{Line: i + 1, Text: line, Err: err})
			continue
		}

		acc.Id = p.newID()
		res.Accounts = append(res.Accounts, acc)
		res.SuccessCount++
	}
	return res
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// parseLineSafe turns a panic inside parseLine into that line's error.
func (p *Parser) parseLineSafe(line string) (acc models.Account, err error) {
	defer func() {
		if r := recover(); r != nil {
			acc = models.Account{}
			err = fmt.Errorf("%w: %v", ErrLinePanic, r)
		}
	}()
	return lineParser(line)
}

// lineParser is a test seam for parseLine.
var lineParser = parseLine

func parseLine(line string) (models.Account, error) {
	if strings.Contains(line, separator) {
		return parseSeparated(line)
	}
	if strings.Contains(line, comma) {
		return parseComma(line)
	}
	return models.Account{}, ErrNoDelimiter
}

func parseSeparated(line string) (models.Account, error) {
	parts := strings.Split(line, separator)
	if len(parts) < 2 {
		return models.Account{}, ErrTooFewSegments
	}

	username := stripLabel(parts[0])
	acc := models.Account{
		Username: username,
		Password: strings.TrimSpace(parts[1]),
		Nickname: username,
	}
	if len(parts) > 2 {
		acc.Email = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		acc.EmailPassword = strings.TrimSpace(parts[3])
	}
	return acc, nil
}

// stripLabel drops a leading "Label:" (half- or full-width colon) and
// returns the trimmed remainder. Only the first colon counts.
func stripLabel(s string) string {
	if i := strings.IndexAny(s, ":："); i >= 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		return strings.TrimSpace(s[i+size:])
	}
	return strings.TrimSpace(s)
}

func parseComma(line string) (models.Account, error) {
	parts := strings.Split(line, comma)
	if len(parts) != 3 {
		return models.Account{}, ErrSegmentCount
	}
	return models.Account{
		Username: strings.TrimSpace(parts[0]),
		Password: strings.TrimSpace(parts[1]),
		Nickname: strings.TrimSpace(parts[2]),
	}, nil
}
