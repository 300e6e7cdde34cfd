package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func writePersonaFixture(t *testing.T, dir string) {
	t.Helper()

	base := filepath.Join(dir, "saint-paul")
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"persona.yaml": `name: Saint Paul
mission: Walk alongside believers.
style:
  voice: warm, concise
  max_lines: 6
`,
		"stages.yaml": `ack: Acknowledge them.
clarify: Ask one question.
advise: Offer one step.
question: End with a question.
`,
		"mode.friend.yaml": `tone: casual
question_style: open
`,
		"mode.mentor.yaml": `tone: direct
question_style: focused
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(base, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writePersonaFixture(t, dir)

	loader := NewLoader(dir)

	b, err := loader.Load("Saint-Paul") // case-insensitive
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if b.Persona.Name != "Saint Paul" {
		t.Errorf("Name = %q, want %q", b.Persona.Name, "Saint Paul")
	}
	if b.Stages.Clarify != "Ask one question." {
		t.Errorf("Stages.Clarify = %q", b.Stages.Clarify)
	}
	if len(b.Modes) != 2 {
		t.Fatalf("len(Modes) = %d, want 2", len(b.Modes))
	}
	if b.Modes["friend"].Tone != "casual" {
		t.Errorf("friend tone = %q", b.Modes["friend"].Tone)
	}
	if b.Modes["mentor"].QuestionStyle != "focused" {
		t.Errorf("mentor question_style = %q", b.Modes["mentor"].QuestionStyle)
	}
}

func TestLoaderMemoizes(t *testing.T) {
	dir := t.TempDir()
	writePersonaFixture(t, dir)

	loader := NewLoader(dir)

	first, err := loader.Load("saint-paul")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Remove the files; a cached bundle must still be served.
	if err := os.RemoveAll(filepath.Join(dir, "saint-paul")); err != nil {
		t.Fatal(err)
	}

	second, err := loader.Load("saint-paul")
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if first != second {
		t.Error("expected the cached bundle instance to be returned")
	}
}

func TestLoaderUnknownPersona(t *testing.T) {
	loader := NewLoader(t.TempDir())

	if _, err := loader.Load("nobody"); err == nil {
		t.Error("expected an error for a missing persona")
	}
}
