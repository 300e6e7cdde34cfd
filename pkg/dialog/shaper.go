package dialog

import (
	"strings"
)

// sentenceUnit is a single sentence of the raw reply, tagged as question or
// statement.
type sentenceUnit struct {
	text     string
	question bool
}

// EnforceOneQuestion normalizes a model reply so that it contains at most one
// question mark. For clarify-only turns the question becomes the first
// sentence; for full turns the last. All other sentences are demoted to
// period-terminated statements in their original order. A reply without any
// question mark is returned unchanged; no question is ever synthesized.
//
// The prompt asks the model for this shape already, but this pass is the
// actual enforcement.
func EnforceOneQuestion(reply string, clarifyOnly bool) string {
	if reply == "" || !strings.Contains(reply, "?") {
		return reply
	}

	units := splitSentenceUnits(reply)

	keep := -1
	for i, u := range units {
		if !u.question {
			continue
		}
		keep = i
		if clarifyOnly {
			break
		}
	}

	out := make([]string, 0, len(units))
	if keep >= 0 && clarifyOnly {
		out = append(out, units[keep].text+"?")
	}
	for i, u := range units {
		if i == keep {
			continue
		}
		out = append(out, asStatement(u.text))
	}
	if keep >= 0 && !clarifyOnly {
		out = append(out, units[keep].text+"?")
	}

	return tidyText(strings.Join(out, " "))
}

// splitSentenceUnits splits the reply on "?" and, within each question
// fragment, peels the question sentence off any leading statements, so the
// question is extracted at sentence granularity.
func splitSentenceUnits(reply string) []sentenceUnit {
	parts := strings.Split(reply, "?")
	units := make([]sentenceUnit, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i == len(parts)-1 {
			// trailing text after the final "?", statements only
			units = append(units, sentenceUnit{text: p})
			continue
		}
		stmt, q := splitTrailingSentence(p)
		if stmt != "" {
			units = append(units, sentenceUnit{text: stmt})
		}
		if q != "" {
			units = append(units, sentenceUnit{text: q, question: true})
		}
	}
	return units
}

// splitTrailingSentence separates the final sentence of a fragment from the
// completed sentences before it.
func splitTrailingSentence(s string) (statements, question string) {
	idx := strings.LastIndexAny(s, ".!")
	if idx < 0 {
		return "", s
	}
	return strings.TrimSpace(s[:idx+1]), strings.TrimSpace(s[idx+1:])
}

func asStatement(s string) string {
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return s
}

// tidyText collapses whitespace and repairs punctuation artifacts left by
// the demotions ("?." and "..").
func tidyText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "?.", "?")
	text = strings.ReplaceAll(text, "..", ".")
	return strings.TrimSpace(text)
}
