// Package dialog holds the turn-level decision logic for the mentoring chat:
// whether a turn should be clarify-only, and the single-question shaping of
// model replies.
package dialog

import (
	"strings"
	"unicode/utf8"
)

// Assistant turn shapes as recorded in session state.
const (
	ShapeNone    = ""
	ShapeClarify = "clarify"
	ShapeAdvise  = "advise"
)

// Minimum message length before vagueness markers are considered.
// Shorter messages are terse, not ambiguous.
const minVagueLength = 18

// vagueMarkers are phrases indicating uncertainty, sadness, or spiritual
// doubt. Matched against the trimmed, lower-cased message.
var vagueMarkers = []string{
	"i don't know",
	"not sure",
	"feel bad",
	"i feel",
	"i'm not feeling",
	"im not feeling",
	"dont think",
	"don't think",
	"i am sad",
	"i'm sad",
	"angry at god",
	"god isn't listening",
	"god is not listening",
}

// NeedsClarify decides whether the current turn should be limited to a
// clarifying question. Rules are evaluated in order, first match wins:
//
//  1. never clarify twice in a row
//  2. a fresh topic always opens with a clarify turn
//  3. very short messages are never treated as vague
//  4. otherwise, clarify iff the message contains a vagueness marker
func NeedsClarify(message string, newTopic bool, lastShape string) bool {
	t := strings.ToLower(strings.TrimSpace(message))

	// If we just clarified, do NOT clarify again; proceed to advice.
	if lastShape == ShapeClarify {
		return false
	}

	if newTopic {
		return true
	}

	if utf8.RuneCountInString(t) < minVagueLength {
		return false
	}

	for _, marker := range vagueMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
