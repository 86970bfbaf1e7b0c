// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits message content into plain-text and fenced-code
// segments for rendering.
//
// A fence opens with three backticks, an optional language tag written
// directly after them, and a newline. It closes at the next three backticks.
// Matching is left-to-right and non-overlapping; nested fences are not
// supported. An opening fence with no closer is left as literal text.
//
//	segs := segment.Split("see:\n```go\nfmt.Println(1)\n```\ndone")
//	// [{text "see:\n"} {code go "fmt.Println(1)"} {text "\ndone"}]
package segment

import "strings"

// Fence is the code fence delimiter.
const Fence = "```"

// DefaultLanguage is used for code segments whose fence carries no tag.
const DefaultLanguage = "text"

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// Kind distinguishes plain text from code.
type Kind int

const (
	KindText Kind = iota
	KindCode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Segment is one contiguous unit of parsed message content.
// Language is only set for code segments.
type Segment struct {
	Kind     Kind
	Content  string
	Language string
}

// Text creates a text segment.
func Text(content string) Segment {
	return Segment{Kind: KindText, Content: content}
}

// Code creates a code segment.
func Code(language, content string) Segment {
	return Segment{Kind: KindCode, Content: content, Language: language}
}

// IsCode reports whether the segment is a code block.
func (s Segment) IsCode() bool {
	return s.Kind == KindCode
}

// =============================================================================
// SEGMENTER
// =============================================================================

// Segmenter splits raw message content into segments.
// The zero value uses DefaultLanguage as the fallback language.
type Segmenter struct {
	// DefaultLanguage labels code fences that carry no language tag.
	DefaultLanguage string
}

// New creates a Segmenter with the given fallback language.
// An empty language selects DefaultLanguage.
func New(defaultLanguage string) *Segmenter {
	return &Segmenter{DefaultLanguage: defaultLanguage}
}

var std = &Segmenter{}

// Split segments raw using the package default fallback language.
func Split(raw string) []Segment {
	return std.Segment(raw)
}

// Segment splits raw into ordered text and code segments.
// Input without any fence marker yields exactly one text segment equal to
// raw, including when raw is empty.
func (s *Segmenter) Segment(raw string) []Segment {
	if !strings.Contains(raw, Fence) {
		return []Segment{Text(raw)}
	}

	var segs []Segment
	last := 0 // end of the previous match
	pos := 0  // where to look for the next opening fence

	for pos < len(raw) {
		open := strings.Index(raw[pos:], Fence)
		if open < 0 {
			break
		}
		open += pos

		tag, bodyStart, ok := scanOpening(raw, open+len(Fence))
		if !ok {
			pos = open + 1
			continue
		}

		closeRel := strings.Index(raw[bodyStart:], Fence)
		if closeRel < 0 {
			// Any later opener would search a suffix of this same region.
			break
		}
		closeAt := bodyStart + closeRel

		if open > last {
			segs = append(segs, Text(raw[last:open]))
		}
		segs = append(segs, Code(s.language(tag), strings.TrimSpace(raw[bodyStart:closeAt])))

		last = closeAt + len(Fence)
		pos = last
	}

	if last < len(raw) {
		segs = append(segs, Text(raw[last:]))
	}
	return segs
}

func (s *Segmenter) language(tag string) string {
	if tag != "" {
		return tag
	}
	if s != nil && s.DefaultLanguage != "" {
		return s.DefaultLanguage
	}
	return DefaultLanguage
}

// scanOpening reads the language tag and line break that must follow an
// opening fence. It returns the tag and the offset where the body begins.
func scanOpening(raw string, i int) (tag string, bodyStart int, ok bool) {
	start := i
	for i < len(raw) && isTagByte(raw[i]) {
		i++
	}
	tag = raw[start:i]

	if i < len(raw) && raw[i] == '\r' {
		i++
	}
	if i >= len(raw) || raw[i] != '\n' {
		return "", 0, false
	}
	return tag, i + 1, true
}

func isTagByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == '+', b == '-', b == '#', b == '.':
		return true
	}
	return false
}

// =============================================================================
// HELPERS
// =============================================================================

// Join renders segments back into fenced message text.
// Code segments are written as "```" + language + "\n" + content + "```".
func Join(segs []Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.IsCode() {
			b.WriteString(Fence)
			b.WriteString(seg.Language)
			b.WriteByte('\n')
			b.WriteString(seg.Content)
			b.WriteString(Fence)
			continue
		}
		b.WriteString(seg.Content)
	}
	return b.String()
}

// CodeSegments returns only the code segments, in order.
func CodeSegments(segs []Segment) []Segment {
	var out []Segment
	for _, seg := range segs {
		if seg.IsCode() {
			out = append(out, seg)
		}
	}
	return out
}
