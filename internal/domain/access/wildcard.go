// Package access implements the allowlist data model: wildcard and literal
// connection-id patterns, and the set-command that mutates them.
package access

import (
	"strings"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

// WildcardKind discriminates the variants of WildcardPattern.
type WildcardKind int

const (
	Any WildcardKind = iota
	StartsWith
	EndsWith
	StartsAndEndsWith
	Contains
)

const star = "*"

// WildcardPattern is a closed sum type over the five ways a connection-id
// allowlist entry can match candidate ids, built by parsing a pattern string
// containing one or two '*' characters.
type WildcardPattern struct {
	Kind   WildcardKind `msgpack:"kind"`
	First  string       `msgpack:"first"`
	Second string       `msgpack:"second"`
}

// ParseWildcardPattern parses value into a WildcardPattern, counting the
// number of '*' characters: 0 fails with NoStars, 1 classifies by position,
// 2 accepts only a leading-and-trailing pair (Contains), and 3+ fails with
// TooManyStars.
func ParseWildcardPattern(value string) (WildcardPattern, error) {
	if !isASCIINoWhitespace(value) {
		return WildcardPattern{}, poolyerrors.NewWildcardErr(poolyerrors.WildcardInvalidCharacters, value)
	}

	if value == star {
		return WildcardPattern{Kind: Any}, nil
	}

	numStars := strings.Count(value, star)

	switch numStars {
	case 0:
		return WildcardPattern{}, poolyerrors.NewWildcardErr(poolyerrors.WildcardNoStars, value)
	case 1:
		return parseOneStar(value), nil
	case 2:
		return parseTwoStars(value)
	default:
		return WildcardPattern{}, poolyerrors.NewWildcardErr(poolyerrors.WildcardTooManyStars, value)
	}
}

// isASCIINoWhitespace reports whether value is free of non-ASCII bytes and
// whitespace, per the pattern grammar's character constraints.
func isASCIINoWhitespace(value string) bool {
	for i := 0; i < len(value); i++ {
		b := value[i]
		if b > 127 || b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f' {
			return false
		}
	}

	return true
}

func parseOneStar(value string) WildcardPattern {
	if strings.HasSuffix(value, star) {
		return WildcardPattern{Kind: StartsWith, First: strings.TrimSuffix(value, star)}
	}

	if strings.HasPrefix(value, star) {
		return WildcardPattern{Kind: EndsWith, First: strings.TrimPrefix(value, star)}
	}

	parts := strings.SplitN(value, star, 2)

	return WildcardPattern{Kind: StartsAndEndsWith, First: parts[0], Second: parts[1]}
}

func parseTwoStars(value string) (WildcardPattern, error) {
	if strings.HasPrefix(value, star) && strings.HasSuffix(value, star) {
		infix := strings.TrimSuffix(strings.TrimPrefix(value, star), star)

		return WildcardPattern{Kind: Contains, First: infix}, nil
	}

	return WildcardPattern{}, poolyerrors.NewWildcardErr(poolyerrors.WildcardUnsupportedPattern, value)
}

// String renders p back into the pattern syntax ParseWildcardPattern accepts.
func (p WildcardPattern) String() string {
	switch p.Kind {
	case Any:
		return star
	case StartsWith:
		return p.First + star
	case EndsWith:
		return star + p.First
	case StartsAndEndsWith:
		return p.First + star + p.Second
	case Contains:
		return star + p.First + star
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so WildcardPattern can be
// used as a JSON object key (e.g. in a map[WildcardPattern]struct{}) and as
// a plain JSON string value.
func (p WildcardPattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, parsing text with the
// same grammar as ParseWildcardPattern.
func (p *WildcardPattern) UnmarshalText(text []byte) error {
	parsed, err := ParseWildcardPattern(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// Matches reports whether target satisfies the pattern.
func (p WildcardPattern) Matches(target string) bool {
	switch p.Kind {
	case Any:
		return true
	case StartsWith:
		return strings.HasPrefix(target, p.First)
	case EndsWith:
		return strings.HasSuffix(target, p.First)
	case StartsAndEndsWith:
		return strings.HasPrefix(target, p.First) && strings.HasSuffix(target, p.Second)
	case Contains:
		return strings.Contains(target, p.First)
	default:
		return false
	}
}
