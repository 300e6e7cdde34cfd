package persona

import (
	"strings"
	"testing"
)

func testBundle() *Bundle {
	return &Bundle{
		Persona: Persona{
			Name:    "Saint Paul",
			Mission: "Walk alongside believers as a seasoned mentor.",
			Style: Style{
				Voice:           "warm, concise",
				ScriptureFormat: "Book Chapter:Verse",
				MaxLines:        6,
			},
			Principles: []string{"Name the struggle plainly"},
			Boundaries: Boundaries{
				Avoid: []string{"Long sermons"},
				Do:    []string{"Acknowledge pain before advising"},
			},
		},
		Stages: Stages{
			Ack:      "Briefly acknowledge what they shared.",
			Clarify:  "Ask one short question about the situation.",
			Advise:   "Offer one practical step grounded in scripture.",
			Question: "End with one gentle question.",
		},
		Modes: map[string]Mode{
			"friend": {
				Tone:          "casual",
				Goals:         []string{"Make them feel heard"},
				QuestionStyle: "open and personal",
			},
		},
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	b := testBundle()

	prompt := BuildSystemPrompt(b, "friend", false)

	for _, want := range []string{
		"You are Saint Paul, a Christian mentor.",
		"Tone: casual. Voice: warm, concise.",
		"Goals: Make them feel heard",
		"Guiding principles: Name the struggle plainly",
		"Avoid: Long sermons",
		"Do: Acknowledge pain before advising",
		"Keep replies short (max 6 lines).",
		"Always end with one gentle follow-up question (open and personal).",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPromptSuppressesAutoQuestion(t *testing.T) {
	b := testBundle()

	prompt := BuildSystemPrompt(b, "friend", true)

	if strings.Contains(prompt, "Always end with one gentle follow-up question") {
		t.Errorf("suppressed prompt still contains the auto-question directive:\n%s", prompt)
	}
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	b := &Bundle{
		Persona: Persona{Name: "Saint Paul"},
		Modes:   map[string]Mode{},
	}

	prompt := BuildSystemPrompt(b, "unknown-mode", false)

	for _, want := range []string{
		"Voice: warm, concise.",
		"(Book Chapter:Verse)",
		"Keep replies short (max 6 lines).",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("default prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildStagePlan(t *testing.T) {
	b := testBundle()

	clarify := BuildStagePlan(b, true)
	if !strings.Contains(clarify, "do ONLY: ACK -> Clarify.") {
		t.Errorf("clarify plan missing header:\n%s", clarify)
	}
	if !strings.Contains(clarify, "Do not give advice yet.") {
		t.Errorf("clarify plan must forbid advice:\n%s", clarify)
	}
	if strings.Contains(clarify, b.Stages.Advise) {
		t.Errorf("clarify plan must not include the advise script:\n%s", clarify)
	}

	full := BuildStagePlan(b, false)
	if !strings.Contains(full, "ACK -> Clarify (brief) -> Advise (short) -> Question.") {
		t.Errorf("full plan missing header:\n%s", full)
	}
	if !strings.Contains(full, "place it at the END only") {
		t.Errorf("full plan must pin the question at the end:\n%s", full)
	}
	if !strings.Contains(full, b.Stages.Advise) {
		t.Errorf("full plan missing the advise script:\n%s", full)
	}
}
