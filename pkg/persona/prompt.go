package persona

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt renders the persona voice block: identity, tone, goals,
// principles, scripture format, boundaries and length limits. When
// suppressAutoQuestion is set the closing always-end-with-question directive
// is omitted; on clarify-only turns the stage plan owns the questioning.
func BuildSystemPrompt(b *Bundle, mode string, suppressAutoQuestion bool) string {
	p := b.Persona
	m := b.Modes[mode]

	name := p.Name
	voice := p.Style.Voice
	if voice == "" {
		voice = "warm, concise"
	}
	scriptureFmt := p.Style.ScriptureFormat
	if scriptureFmt == "" {
		scriptureFmt = "Book Chapter:Verse"
	}
	maxLines := p.Style.MaxLines
	if maxLines == 0 {
		maxLines = 6
	}
	alwaysEndQ := (p.Style.AlwaysEndWithQuestion == nil || *p.Style.AlwaysEndWithQuestion) && !suppressAutoQuestion

	var lines []string
	lines = append(lines, fmt.Sprintf("You are %s, a Christian mentor.", name))
	if p.Mission != "" {
		lines = append(lines, p.Mission)
	}
	if m.Tone != "" {
		lines = append(lines, fmt.Sprintf("Tone: %s. Voice: %s.", m.Tone, voice))
	} else {
		lines = append(lines, fmt.Sprintf("Voice: %s.", voice))
	}
	if len(m.Goals) > 0 {
		lines = append(lines, fmt.Sprintf("Goals: %s", strings.Join(m.Goals, "; ")))
	}
	if len(p.Principles) > 0 {
		lines = append(lines, fmt.Sprintf("Guiding principles: %s", strings.Join(p.Principles, "; ")))
	}
	lines = append(lines, fmt.Sprintf("Scripture references should be brief (%s), at most one verse.", scriptureFmt))
	if len(p.Boundaries.Avoid) > 0 {
		lines = append(lines, fmt.Sprintf("Avoid: %s", strings.Join(p.Boundaries.Avoid, "; ")))
	}
	if len(p.Boundaries.Do) > 0 {
		lines = append(lines, fmt.Sprintf("Do: %s", strings.Join(p.Boundaries.Do, "; ")))
	}
	lines = append(lines, fmt.Sprintf("Keep replies short (max %d lines).", maxLines))
	if alwaysEndQ {
		q := "Always end with one gentle follow-up question"
		if m.QuestionStyle != "" {
			q += " (" + m.QuestionStyle + ")"
		}
		lines = append(lines, q+".")
	}
	return strings.Join(lines, "\n")
}

// BuildStagePlan renders the ordered micro-script for the turn. Clarify-only
// turns stop after the clarifying question and explicitly forbid advice and
// a second question; full turns place the single question at the end.
func BuildStagePlan(b *Bundle, clarifyOnly bool) string {
	s := b.Stages
	if clarifyOnly {
		return fmt.Sprintf(`For this turn, do ONLY: ACK -> Clarify.
- ACK: %s
- Clarify: %s
Ask exactly ONE question total and do NOT add any second question. Do not give advice yet. Keep it to 4-6 short lines.`, s.Ack, s.Clarify)
	}
	return fmt.Sprintf(`For this turn, do: ACK -> Clarify (brief) -> Advise (short) -> Question.
- ACK: %s
- Clarify: %s
- Advise: %s
- Question: %s
Ask exactly ONE question and place it at the END only. Keep it to 4-6 short lines.`, s.Ack, s.Clarify, s.Advise, s.Question)
}
