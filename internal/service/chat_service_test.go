package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mentor-chat-be/internal/dto"
	"mentor-chat-be/internal/entity"
	"mentor-chat-be/internal/repository/contract"
	"mentor-chat-be/pkg/llm"
	"mentor-chat-be/pkg/persona"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Fakes ----

type pushedTurn struct {
	persona, mode, sessionId, role, content string
}

type fakeTurnStore struct {
	pushes []pushedTurn
	recent []contract.Turn
}

func (f *fakeTurnStore) Push(_ context.Context, persona, mode, sessionId, role, content string) error {
	f.pushes = append(f.pushes, pushedTurn{persona, mode, sessionId, role, content})
	return nil
}

func (f *fakeTurnStore) Recent(_ context.Context, _, _, _ string, _ int64) ([]contract.Turn, error) {
	return f.recent, nil
}

type stateSet struct {
	lastAiShape string
	newTopic    bool
}

type fakeStateStore struct {
	state contract.SessionState
	sets  []stateSet
}

func (f *fakeStateStore) Get(_ context.Context, _, _, _ string) (contract.SessionState, error) {
	return f.state, nil
}

func (f *fakeStateStore) Set(_ context.Context, _, _, _, lastAiShape string, newTopic bool) error {
	f.sets = append(f.sets, stateSet{lastAiShape, newTopic})
	return nil
}

type factQuery struct {
	topK            int
	scopedToSession bool
	types           []string
}

type fakeFactService struct {
	queries  []factQuery
	hits     []*contract.ScoredFact
	writes   [][]FactInput
	queryErr error
}

func (f *fakeFactService) Write(_ context.Context, _, _, _ string, facts []FactInput) error {
	f.writes = append(f.writes, facts)
	return nil
}

func (f *fakeFactService) Query(_ context.Context, _, _, _, _ string, topK int, scopedToSession bool, types []string) ([]*contract.ScoredFact, error) {
	f.queries = append(f.queries, factQuery{topK, scopedToSession, types})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.hits, nil
}

type fakeLLM struct {
	reply    string
	err      error
	messages []llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// ---- Fixtures ----

func testPersonaLoader(t *testing.T) *persona.Loader {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "saint-paul")
	require.NoError(t, os.MkdirAll(base, 0o755))

	files := map[string]string{
		"persona.yaml": `name: Saint Paul
style:
  voice: warm, concise
`,
		"stages.yaml": `ack: Acknowledge them.
clarify: Ask one question.
advise: Offer one step.
question: End with a question.
`,
		"mode.friend.yaml": `tone: casual
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte(content), 0o644))
	}

	return persona.NewLoader(dir)
}

type chatFixture struct {
	turns     *fakeTurnStore
	state     *fakeStateStore
	facts     *fakeFactService
	llm       *fakeLLM
	publisher *fakePublisher
	svc       IChatService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	f := &chatFixture{
		turns:     &fakeTurnStore{},
		state:     &fakeStateStore{state: contract.SessionState{NewTopic: true}},
		facts:     &fakeFactService{},
		llm:       &fakeLLM{reply: "That sounds hard. What happened exactly?"},
		publisher: &fakePublisher{},
	}
	f.svc = NewChatService(
		f.turns,
		f.state,
		f.facts,
		f.llm,
		testPersonaLoader(t),
		f.publisher,
		nopLogger{},
		"saint-paul",
		"friend",
	)
	return f
}

// ---- Tests ----

func TestSendChatClarifyTurn(t *testing.T) {
	f := newChatFixture(t)
	f.state.state = contract.SessionState{NewTopic: true}

	res, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "I feel bad about everything lately",
	})
	require.NoError(t, err)

	// Question first on clarify turns.
	assert.Equal(t, "What happened exactly? That sounds hard.", res.Reply)

	// Clarify turns skip long-term memory and the fact pipeline entirely.
	assert.Empty(t, f.facts.queries)
	assert.Empty(t, f.publisher.payloads)

	// User turn is stored before the model call, assistant turn after.
	require.Len(t, f.turns.pushes, 2)
	assert.Equal(t, "user", f.turns.pushes[0].role)
	assert.Equal(t, "assistant", f.turns.pushes[1].role)
	assert.Equal(t, res.Reply, f.turns.pushes[1].content)

	// State records the clarify shape and arms the no-repeat rule.
	require.Len(t, f.state.sets, 1)
	assert.Equal(t, stateSet{"clarify", false}, f.state.sets[0])

	// The auto-question directive is suppressed on clarify turns.
	require.NotEmpty(t, f.llm.messages)
	assert.NotContains(t, f.llm.messages[0].Content, "Always end with one gentle follow-up question")
}

func TestSendChatAdviseAfterClarify(t *testing.T) {
	f := newChatFixture(t)
	f.state.state = contract.SessionState{LastAiShape: "clarify", NewTopic: false}
	f.llm.reply = "That's understandable. Have you prayed about it? God is near."
	f.facts.hits = []*contract.ScoredFact{
		{Fact: &entity.Fact{Text: "Struggles with a friend who stopped talking to them"}, Score: 0.91},
	}

	res, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "i don't know what to do about my friend anymore",
		Persona:   "Saint-Paul",
		Mode:      "Friend",
	})
	require.NoError(t, err)

	// Question last on full turns.
	assert.Equal(t, "That's understandable. God is near. Have you prayed about it?", res.Reply)

	// Personal (session-scoped) and general retrieval ran with their quotas.
	require.Len(t, f.facts.queries, 2)
	byScope := map[bool]factQuery{}
	for _, q := range f.facts.queries {
		byScope[q.scopedToSession] = q
	}
	assert.Equal(t, 2, byScope[true].topK)
	assert.Equal(t, 1, byScope[false].topK)
	assert.Equal(t, []string{"advice_fact", "session_summary"}, byScope[true].types)

	// Retrieved facts appear as a memory block in the prompt.
	var memoryBlock string
	for _, m := range f.llm.messages {
		if strings.HasPrefix(m.Content, "(Long-term memory: concise facts)") {
			memoryBlock = m.Content
		}
	}
	require.NotEmpty(t, memoryBlock, "expected a long-term memory message")
	assert.Contains(t, memoryBlock, "- Struggles with a friend")

	// Advise turns feed the fact extraction pipeline.
	require.Len(t, f.publisher.payloads, 1)
	var event dto.ExtractFactMessage
	require.NoError(t, json.Unmarshal(f.publisher.payloads[0], &event))
	assert.Equal(t, "saint-paul", event.Persona)
	assert.Equal(t, "friend", event.Mode)
	assert.Equal(t, "s1", event.SessionId)
	assert.Equal(t, res.Reply, event.Reply)

	require.Len(t, f.state.sets, 1)
	assert.Equal(t, stateSet{"advise", false}, f.state.sets[0])
}

func TestSendChatPersonaAndModeDefaults(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "hello there",
	})
	require.NoError(t, err)

	require.NotEmpty(t, f.turns.pushes)
	assert.Equal(t, "saint-paul", f.turns.pushes[0].persona)
	assert.Equal(t, "friend", f.turns.pushes[0].mode)
}

func TestSendChatPublishFailureDoesNotFailTheTurn(t *testing.T) {
	f := newChatFixture(t)
	f.state.state = contract.SessionState{LastAiShape: "clarify", NewTopic: false}
	f.llm.reply = "Take one small step today."
	f.publisher.err = errors.New("bus down")

	res, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "My friend and I argued last week about money",
	})
	require.NoError(t, err)
	assert.Equal(t, "Take one small step today.", res.Reply)
}

func TestSendChatFactQueryFailureFailsTheTurn(t *testing.T) {
	f := newChatFixture(t)
	f.state.state = contract.SessionState{LastAiShape: "clarify", NewTopic: false}
	f.facts.queryErr = errors.New("vector store unreachable")

	_, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "My friend and I argued last week about money",
	})
	assert.Error(t, err)
}

func TestSendChatHistoryWindowInPrompt(t *testing.T) {
	f := newChatFixture(t)
	f.state.state = contract.SessionState{LastAiShape: "advise", NewTopic: false}
	f.turns.recent = []contract.Turn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	f.llm.reply = "Keep going."

	_, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "thanks",
	})
	require.NoError(t, err)

	// system prompt, stage plan, two history turns, current user message
	var contents []string
	for _, m := range f.llm.messages {
		contents = append(contents, m.Content)
	}
	assert.Contains(t, contents, "earlier question")
	assert.Contains(t, contents, "earlier answer")
	assert.Equal(t, "thanks", contents[len(contents)-1])
}

func TestGetHistory(t *testing.T) {
	f := newChatFixture(t)
	f.turns.recent = []contract.Turn{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	res, err := f.svc.GetHistory(context.Background(), "s1", "", "")
	require.NoError(t, err)

	require.Len(t, res.Recent, 2)
	assert.Equal(t, dto.TurnDTO{Role: "user", Content: "hi"}, res.Recent[0])
	assert.Equal(t, dto.TurnDTO{Role: "assistant", Content: "hello"}, res.Recent[1])
}
