package parser

import (
	"fmt"
	"strings"
)

// Attributes maps attribute names, as written, to their unquoted values
type Attributes map[string]string

// Get looks an attribute up ignoring case
func (a Attributes) Get(name string) (string, bool) {
	if v, ok := a[name]; ok {
		return v, true
	}
	for k, v := range a {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Tag is the innermost element of a parsed fragment
type Tag struct {
	InnerText  string
	Attributes Attributes
}

// ParseTag extracts the inner text and attributes of the innermost element
// of fragment. elements lists the nested element names from outer to inner,
// e.g. ParseTag(`<DT><A HREF="x">T</A></DT>`, "DT", "A").
//
// Outer elements must wrap the rest exactly as <name>...</name>. The
// innermost must start with <name and end with </name>; its attributes are
// key="value" pairs up to the first bare '>'.
func ParseTag(fragment string, elements ...string) (Tag, error) {
	if len(elements) == 0 {
		return Tag{}, fmt.Errorf("%w: no element names given", ErrMalformedTag)
	}

	s := fragment
	for _, elem := range elements[:len(elements)-1] {
		inner, ok := unwrap(strings.TrimSpace(s), elem)
		if !ok {
			return Tag{}, fmt.Errorf("%w: expected <%s>...</%s> in %q", ErrMalformedTag, elem, elem, fragment)
		}
		s = inner
	}

	elem := elements[len(elements)-1]
	s = strings.TrimSpace(s)
	open, closing := "<"+elem, "</"+elem+">"
	if len(s) < len(open)+len(closing) || !hasPrefixFold(s, open) || !hasSuffixFold(s, closing) {
		return Tag{}, fmt.Errorf("%w: expected <%s ...>...</%s> in %q", ErrMalformedTag, elem, elem, fragment)
	}

	tag, ok := scanAttributes(s[len(open) : len(s)-len(closing)])
	if !ok {
		return Tag{}, fmt.Errorf("%w: unterminated <%s> in %q", ErrMalformedTag, elem, fragment)
	}
	return tag, nil
}

// scanAttributes walks the content of an opening tag. Keys run up to '=',
// values are enclosed in double quotes and may contain '>' or '='.
func scanAttributes(content string) (Tag, bool) {
	tag := Tag{Attributes: Attributes{}}
	keyStart, keyEnd, valueStart := -1, -1, -1

	for i := 0; i < len(content); i++ {
		c := content[i]
		if valueStart < 0 {
			switch {
			case c == '=':
				keyEnd = i
				continue
			case c == '>':
				tag.InnerText = content[i+1:]
				return tag, true
			case keyStart < 0:
				keyStart = i
				continue
			}
		}

		if keyEnd <= keyStart || c != '"' {
			continue
		}

		if valueStart >= 0 {
			key := strings.TrimSpace(content[keyStart:keyEnd])
			tag.Attributes[key] = strings.TrimSpace(content[valueStart:i])
			keyStart, keyEnd, valueStart = -1, -1, -1
		} else {
			valueStart = i + 1
		}
	}

	return Tag{}, false
}

func unwrap(s, elem string) (string, bool) {
	open, closing := "<"+elem+">", "</"+elem+">"
	if len(s) < len(open)+len(closing) || !hasPrefixFold(s, open) || !hasSuffixFold(s, closing) {
		return "", false
	}
	return s[len(open) : len(s)-len(closing)], true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
