// Package markdown converts agent output into a flat sequence of typed
// display blocks. It deliberately recognizes only the small dialect the
// agent emits: ATX headings up to level 3, unordered and ordered list
// items, blank-line spacers and paragraphs, with **bold** as the only
// inline marker. Anything else passes through as literal text, so the
// renderer can never fail on malformed input.
package markdown

import (
	"regexp"
	"strings"
)

// BlockKind identifies the type of a display block.
type BlockKind int

const (
	Heading BlockKind = iota
	ListItem
	Paragraph
	Spacer
)

// Span is a run of text within a line, either plain or bold.
type Span struct {
	Bold bool
	Text string
}

// Block is a single rendered line of output.
//
// Level is set for Heading blocks (1-3). Ordered is set for ListItem
// blocks produced from "1. " style prefixes. Text carries the heading
// text; list items and paragraphs carry their content in Spans.
type Block struct {
	Kind    BlockKind
	Level   int
	Ordered bool
	Text    string
	Spans   []Span
}

var orderedItemRegex = regexp.MustCompile(`^\d+\.\s`)

// Render splits text into display blocks, one per input line, preserving
// line order. Empty input yields nil.
func Render(text string) []Block {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: Heading, Level: 3, Text: line[4:]})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: Heading, Level: 2, Text: line[3:]})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{Kind: Heading, Level: 1, Text: line[2:]})
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			blocks = append(blocks, Block{Kind: ListItem, Spans: InlineSpans(line[2:])})
		case orderedItemRegex.MatchString(line):
			stripped := orderedItemRegex.ReplaceAllString(line, "")
			blocks = append(blocks, Block{Kind: ListItem, Ordered: true, Spans: InlineSpans(stripped)})
		case strings.TrimSpace(line) == "":
			blocks = append(blocks, Block{Kind: Spacer})
		default:
			blocks = append(blocks, Block{Kind: Paragraph, Spans: InlineSpans(line)})
		}
	}

	return blocks
}

var boldRegex = regexp.MustCompile(`\*\*(.*?)\*\*`)

// InlineSpans splits a line on paired ** delimiters. Text between a pair
// becomes a bold span; everything else stays plain. An unmatched ** has
// no pair and is kept as literal text.
func InlineSpans(text string) []Span {
	pairs := boldRegex.FindAllStringSubmatchIndex(text, -1)
	if len(pairs) == 0 {
		return []Span{{Text: text}}
	}

	var spans []Span
	last := 0
	for _, m := range pairs {
		if text[last:m[0]] != "" {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Bold: true, Text: text[m[2]:m[3]]})
		last = m[1]
	}
	if text[last:] != "" {
		spans = append(spans, Span{Text: text[last:]})
	}

	return spans
}

// Plain flattens blocks back to unstyled text, used for compact previews.
func Plain(blocks []Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b.Kind {
		case Heading:
			sb.WriteString(b.Text)
		case Spacer:
		default:
			for _, s := range b.Spans {
				sb.WriteString(s.Text)
			}
		}
	}
	return sb.String()
}
