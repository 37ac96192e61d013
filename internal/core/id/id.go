// Package id generates and validates typed short identifiers.
// This is part of the Functional Core - the only I/O is reading crypto/rand.
package id

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"unicode"
)

// TypeGoal is the type tag for goal identifiers (g-xxxxxx).
const TypeGoal = 'g'

// suffixLength is the number of random characters after the tag.
const suffixLength = 6

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	// ErrInvalidTypeTag is returned when Generate is called with an unregistered tag.
	ErrInvalidTypeTag = errors.New("invalid type tag")

	// ErrInvalidID is returned when an identifier does not match the id format.
	ErrInvalidID = errors.New("invalid id format")
)

// Pattern is the externally visible identifier format.
var Pattern = regexp.MustCompile(`^[a-z]-[a-z0-9]{6}$`)

// knownTags lists the entity types that may carry a typed id.
var knownTags = map[rune]string{
	TypeGoal: "goal",
}

// Generate returns "<tag>-" followed by six random lowercase alphanumerics.
// Uniqueness is not guaranteed here; the storage primary key is the backstop
// and callers should regenerate on a duplicate-key failure.
func Generate(tag rune) (string, error) {
	lower := unicode.ToLower(tag)
	if _, ok := knownTags[lower]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTypeTag, tag)
	}

	suffix := make([]byte, suffixLength)
	limit := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		suffix[i] = alphabet[n.Int64()]
	}

	return fmt.Sprintf("%c-%s", lower, suffix), nil
}

// Validate checks that id matches the identifier format.
func Validate(id string) error {
	if !Pattern.MatchString(id) {
		return fmt.Errorf("%w: %q (expected format like g-a1b2c3)", ErrInvalidID, id)
	}
	return nil
}

// ValidatePattern checks id against a configured pattern. An empty pattern
// falls back to the default format.
func ValidatePattern(pattern, id string) error {
	if pattern == "" || pattern == Pattern.String() {
		return Validate(id)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid id pattern %q: %w", pattern, err)
	}
	if !re.MatchString(id) {
		return fmt.Errorf("%w: %q does not match %s", ErrInvalidID, id, pattern)
	}
	return nil
}
