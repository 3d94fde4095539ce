package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RegexPrefix marks a pattern as a full-match Go regular expression instead
// of a token pattern.
const RegexPrefix = "re:"

// classKind enumerates the character classes the token grammar knows.
type classKind int

const (
	classNumber classKind = iota // one or more digits
	classWord                    // one or more word characters
	classDigit
	classLetter
	classUpper
	classLower
)

// segment is one compiled element of a token pattern: either a literal run
// or a character class with an exact count (0 means one or more).
type segment struct {
	literal string
	class   classKind
	count   int
}

// Pattern is a compiled name matcher. Compile once, match many times;
// matching is pure and safe for concurrent use.
type Pattern struct {
	raw      string
	segments []segment
	re       *regexp.Regexp
	reFold   *regexp.Regexp
}

// Compile parses a pattern in the token grammar, or a Go regular expression
// when prefixed with "re:". Malformed patterns are reported here so rule
// evaluation can never fail per entry.
func Compile(raw string) (*Pattern, error) {
	if expr, ok := strings.CutPrefix(raw, RegexPrefix); ok {
		anchored := "^(?:" + expr + ")$"
		re, err := regexp.Compile(anchored)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", raw, err)
		}
		reFold, err := regexp.Compile("(?i)" + anchored)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", raw, err)
		}
		return &Pattern{raw: raw, re: re, reFold: reFold}, nil
	}

	segments, err := compileTokens(raw)
	if err != nil {
		return nil, err
	}
	return &Pattern{raw: raw, segments: segments}, nil
}

// MustCompile is Compile for patterns known valid at build time, such as the
// shipped default table. It panics on error.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern source text.
func (p *Pattern) String() string { return p.raw }

// IsRegex reports whether the pattern is a regular expression rather than a
// token pattern.
func (p *Pattern) IsRegex() bool { return p.re != nil }

// Match checks a name against the pattern. The name is NFC-normalized
// first. On mismatch the returned reason names the token or literal that
// failed so the operator knows what to fix.
func (p *Pattern) Match(name string, fold bool) (bool, string) {
	name = norm.NFC.String(name)
	if p.re != nil {
		re := p.re
		if fold {
			re = p.reFold
		}
		if re.MatchString(name) {
			return true, ""
		}
		return false, fmt.Sprintf("name does not match %s", strings.TrimPrefix(p.raw, RegexPrefix))
	}
	return matchSegments(p.segments, name, fold)
}

func compileTokens(raw string) ([]segment, error) {
	var segments []segment
	runes := []rune(raw)
	var literal []rune

	flushLiteral := func() {
		if len(literal) > 0 {
			segments = append(segments, segment{literal: string(literal)})
			literal = nil
		}
	}

	for i := 0; i < len(runes); i++ {
		if runes[i] != '<' {
			literal = append(literal, runes[i])
			continue
		}
		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '>' {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("invalid pattern %q: unterminated token at offset %d", raw, i)
		}
		flushLiteral()
		seg, err := parseToken(string(runes[i+1 : end]))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", raw, err)
		}
		segments = append(segments, seg)
		i = end
	}
	flushLiteral()

	if len(segments) == 0 {
		return nil, fmt.Errorf("invalid pattern %q: empty", raw)
	}
	return segments, nil
}

func parseToken(body string) (segment, error) {
	name, countStr, hasCount := strings.Cut(body, ":")

	var seg segment
	switch name {
	case "number":
		seg.class = classNumber
	case "word":
		seg.class = classWord
	case "digit":
		seg.class, seg.count = classDigit, 1
	case "letter":
		seg.class, seg.count = classLetter, 1
	case "upper":
		seg.class, seg.count = classUpper, 1
	case "lower":
		seg.class, seg.count = classLower, 1
	default:
		return segment{}, fmt.Errorf("unknown token <%s>", body)
	}

	if hasCount {
		if seg.count == 0 {
			return segment{}, fmt.Errorf("token <%s> does not take a count", name)
		}
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 1 {
			return segment{}, fmt.Errorf("invalid count in token <%s>", body)
		}
		seg.count = n
	}
	return seg, nil
}

func matchSegments(segments []segment, name string, fold bool) (bool, string) {
	runes := []rune(name)
	pos := 0

	for _, seg := range segments {
		if seg.literal != "" {
			lit := []rune(seg.literal)
			if pos+len(lit) > len(runes) {
				return false, fmt.Sprintf("name ends before expected %q", seg.literal)
			}
			got := string(runes[pos : pos+len(lit)])
			if !literalEqual(seg.literal, got, fold) {
				return false, fmt.Sprintf("expected %q at position %d, found %q", seg.literal, pos+1, got)
			}
			pos += len(lit)
			continue
		}

		if seg.count == 0 {
			// Variable-length class: greedy, at least one rune.
			start := pos
			for pos < len(runes) && classMatches(seg.class, runes[pos], fold) {
				pos++
			}
			if pos == start {
				if pos >= len(runes) {
					return false, fmt.Sprintf("name ends before expected %s", seg.describe())
				}
				return false, fmt.Sprintf("expected %s, found %q", seg.describe(), string(runes[pos]))
			}
			continue
		}

		start := pos
		for pos < len(runes) && pos-start < seg.count && classMatches(seg.class, runes[pos], fold) {
			pos++
		}
		if pos-start < seg.count {
			if pos >= len(runes) {
				return false, fmt.Sprintf("name ends before expected %s", seg.describe())
			}
			return false, fmt.Sprintf("expected %s, found %q", seg.describe(), string(runes[pos]))
		}
	}

	if pos < len(runes) {
		return false, fmt.Sprintf("unexpected trailing characters %q", string(runes[pos:]))
	}
	return true, ""
}

func (seg segment) describe() string {
	plural := func(one, many string) string {
		if seg.count <= 1 {
			return one
		}
		return fmt.Sprintf(many, seg.count)
	}
	switch seg.class {
	case classNumber:
		return "a number"
	case classWord:
		return "a word"
	case classDigit:
		return plural("a digit", "%d digits")
	case classLetter:
		return plural("a letter", "%d letters")
	case classUpper:
		return plural("an uppercase letter", "%d uppercase letters")
	case classLower:
		return plural("a lowercase letter", "%d lowercase letters")
	default:
		return "a character"
	}
}

func classMatches(c classKind, r rune, fold bool) bool {
	switch c {
	case classNumber, classDigit:
		return unicode.IsDigit(r)
	case classWord:
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	case classLetter:
		return unicode.IsLetter(r)
	case classUpper:
		if fold {
			return unicode.IsLetter(r)
		}
		return unicode.IsUpper(r)
	case classLower:
		if fold {
			return unicode.IsLetter(r)
		}
		return unicode.IsLower(r)
	default:
		return false
	}
}

func literalEqual(want, got string, fold bool) bool {
	if fold {
		return strings.EqualFold(want, got)
	}
	return want == got
}
