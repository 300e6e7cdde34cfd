// Package persona loads mentoring persona bundles from YAML and renders the
// per-turn instruction blocks (system prompt and stage plan) built from them.
package persona

// Bundle is one persona's full configuration: identity, stage micro-scripts,
// and the behavioral modes it supports.
type Bundle struct {
	Persona Persona
	Stages  Stages
	Modes   map[string]Mode
}

type Persona struct {
	Name       string     `yaml:"name"`
	Mission    string     `yaml:"mission"`
	Style      Style      `yaml:"style"`
	Principles []string   `yaml:"principles"`
	Boundaries Boundaries `yaml:"boundaries"`
}

type Style struct {
	Voice                 string `yaml:"voice"`
	ScriptureFormat       string `yaml:"scripture_format"`
	MaxLines              int    `yaml:"max_lines"`
	AlwaysEndWithQuestion *bool  `yaml:"always_end_with_question"`
}

type Boundaries struct {
	Avoid []string `yaml:"avoid"`
	Do    []string `yaml:"do"`
}

// Stages are the micro-script lines composed into the stage plan.
type Stages struct {
	Ack      string `yaml:"ack"`
	Clarify  string `yaml:"clarify"`
	Advise   string `yaml:"advise"`
	Question string `yaml:"question"`
}

// Mode is a behavioral variant of a persona (e.g. friend vs. mentor tone).
type Mode struct {
	Tone          string   `yaml:"tone"`
	Goals         []string `yaml:"goals"`
	QuestionStyle string   `yaml:"question_style"`
}
