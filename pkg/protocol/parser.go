package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// ParseError reports a line that is not "<branchId> <command>".
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return domain.ErrParse
}

// ParseLine splits an input line at its first whitespace rune.
// The prefix must be a base-10 non-negative integer; the suffix is returned
// verbatim as the command text. A prefix too large for a BranchID names a
// branch that can never exist and yields an error wrapping
// domain.ErrUnknownBranch.
func ParseLine(line string) (domain.BranchID, string, error) {
	sep := strings.IndexFunc(line, unicode.IsSpace)
	if sep < 0 {
		return 0, "", &ParseError{Line: line, Reason: `expected "<branchId> <command>"`}
	}

	prefix := line[:sep]
	if prefix == "" {
		return 0, "", &ParseError{Line: line, Reason: "missing branch id"}
	}

	id, err := strconv.ParseUint(prefix, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, "", fmt.Errorf("branch id %s: %w", prefix, domain.ErrUnknownBranch)
	}
	if err != nil {
		return 0, "", &ParseError{Line: line, Reason: fmt.Sprintf("invalid branch id %q", prefix)}
	}

	_, width := utf8.DecodeRuneInString(line[sep:])
	return domain.BranchID(id), line[sep+width:], nil
}

// TrimEOL strips one trailing line terminator ("\n" or "\r\n").
func TrimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
