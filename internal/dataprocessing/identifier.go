package dataprocessing

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

const (
	// MinCandidateLength is the shortest first-column text considered a
	// possible identifier.
	MinCandidateLength = 6
	// MinIdentifierLength is the shortest canonical identifier accepted.
	MinIdentifierLength = 8
)

var canonicalIDPattern = regexp.MustCompile(`^\d{2}-\d{6}$`)

// RowFilter decides from the first cell alone whether a row can hold a
// transformer. Title rows and header captions fail it.
type RowFilter struct {
	reserved []string
}

// NewRowFilter builds a filter over a reserved-word denylist. Matching is a
// case-insensitive substring test. An empty list falls back to the defaults.
func NewRowFilter(reservedWords []string) RowFilter {
	if len(reservedWords) == 0 {
		reservedWords = config.DefaultReservedWords
	}
	words := make([]string, 0, len(reservedWords))
	for _, w := range reservedWords {
		w = strings.TrimSpace(w)
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	return RowFilter{reserved: words}
}

// Accept reports whether firstCell passes the header heuristic.
func (f RowFilter) Accept(firstCell string) bool {
	return f.Reason(firstCell) == ""
}

// Reason returns why firstCell is rejected, or "" when it is accepted.
func (f RowFilter) Reason(firstCell string) domain.DiagnosticReason {
	text := strings.TrimSpace(firstCell)
	if utf8.RuneCountInString(text) < MinCandidateLength {
		return domain.ReasonShortIdentifier
	}
	lower := strings.ToLower(text)
	for _, w := range f.reserved {
		if strings.Contains(lower, w) {
			return domain.ReasonReservedWord
		}
	}
	return ""
}

// IsCanonicalIdentifier reports whether id has the NN-NNNNNN shape.
func IsCanonicalIdentifier(id string) bool {
	return canonicalIDPattern.MatchString(id)
}

// CanonicalizeIdentifier normalizes a raw identifier. Canonical values pass
// through, eight bare digits gain a hyphen after the second, and anything
// else is returned trimmed.
func CanonicalizeIdentifier(raw string) string {
	text := strings.TrimSpace(raw)
	if canonicalIDPattern.MatchString(text) {
		return text
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if len(digits) == 8 {
		return digits[:2] + "-" + digits[2:]
	}
	return text
}

// PlaceholderIdentifier stands in for a missing identifier cell. It is far
// shorter than a canonical id and so normally fails the length gate.
func PlaceholderIdentifier(rng *rand.Rand) string {
	return fmt.Sprintf("TR-%d", rng.Intn(100000))
}
