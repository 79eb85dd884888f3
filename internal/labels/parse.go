// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package labels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/metrics"
)

var (
	// ErrEmpty is returned for a blank label field.
	ErrEmpty = errors.New("empty label field")
	// ErrNotList is returned when the field is not a bracketed list.
	ErrNotList = errors.New("label field is not a list")
)

// Parse reads a bracketed list of labels. Items may be single- or
// double-quoted (with backslash escapes) or bare words; a trailing comma is
// accepted. Parse never evaluates its input.
func Parse(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmpty
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, ErrNotList
	}
	body := []rune(s[1 : len(s)-1])

	out := []string{}
	i := 0
	for {
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			return out, nil
		}

		var item string
		switch q := body[i]; q {
		case '\'', '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(body) {
				r := body[i]
				if r == '\\' && i+1 < len(body) {
					if body[i+1] == 'u' && i+6 <= len(body) {
						if code, err := strconv.ParseUint(string(body[i+2:i+6]), 16, 32); err == nil {
							b.WriteRune(rune(code))
							i += 6
							continue
						}
					}
					b.WriteRune(body[i+1])
					i += 2
					continue
				}
				if r == q {
					closed = true
					i++
					break
				}
				b.WriteRune(r)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quote in label list %q", raw)
			}
			item = b.String()
		case ',':
			return nil, fmt.Errorf("empty item in label list %q", raw)
		default:
			start := i
			for i < len(body) && body[i] != ',' {
				if body[i] == '\'' || body[i] == '"' || body[i] == '[' || body[i] == ']' {
					return nil, fmt.Errorf("unexpected %q in label list %q", body[i], raw)
				}
				i++
			}
			item = strings.TrimSpace(string(body[start:i]))
		}

		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}

		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			return out, nil
		}
		if body[i] != ',' {
			return nil, fmt.Errorf("expected ',' in label list %q", raw)
		}
		i++
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Resolve parses raw and falls back to a single-element list holding the
// trimmed raw field when parsing fails. degraded reports the fallback.
// A blank field resolves to no labels.
func Resolve(raw string) (list []string, degraded bool) {
	list, err := Parse(raw)
	if err == nil {
		return list, false
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	metrics.LabelParseFallbacks.Inc()
	logging.Warn().Str("raw", trimmed).Err(err).Msg("label field degraded to single label")
	return []string{trimmed}, true
}

// Format serializes labels as a single-quoted list, the textual form the
// corpus files use, e.g. "['Banjir', 'Sampah']". Parse reads it back.
func Format(list []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(quoteEscaper.Replace(l))
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
