package service

import (
	"context"
	"encoding/json"
	"strings"

	"mentor-chat-be/internal/dto"
	"mentor-chat-be/internal/pkg/logger"
	"mentor-chat-be/internal/repository/contract"
	"mentor-chat-be/pkg/dialog"
	"mentor-chat-be/pkg/llm"
	"mentor-chat-be/pkg/persona"

	"golang.org/x/sync/errgroup"
)

const (
	// Turns of short-term history delivered to the model per request.
	historyWindow = 6

	// Fact retrieval quotas: session-scoped hits are favored, but a smaller
	// partition-wide quota lets cross-session persona knowledge surface.
	personalFactQuota = 2
	generalFactQuota  = 1

	// Hard cap on the concatenated fact block, so prompt size stays bounded
	// no matter how many facts match.
	factBlockLimit = 600
)

var retrievedFactTypes = []string{"advice_fact", "session_summary"}

type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId, personaName, mode string) (*dto.GetHistoryResponse, error)
}

// chatService is the dialogue orchestration core. Each request runs the same
// sequence: persist the user turn, read short-term state, decide
// clarify-vs-advise, assemble the instruction payload, complete, shape the
// reply, persist, and (advise turns only) hand the reply to the fact
// extraction pipeline.
type chatService struct {
	turnStore     contract.TurnStore
	stateStore    contract.SessionStateStore
	factService   IFactService
	llmProvider   llm.LLMProvider
	personaLoader *persona.Loader
	publisher     IPublisherService
	logger        logger.ILogger

	defaultPersona string
	defaultMode    string
}

func NewChatService(
	turnStore contract.TurnStore,
	stateStore contract.SessionStateStore,
	factService IFactService,
	llmProvider llm.LLMProvider,
	personaLoader *persona.Loader,
	publisher IPublisherService,
	log logger.ILogger,
	defaultPersona string,
	defaultMode string,
) IChatService {
	return &chatService{
		turnStore:      turnStore,
		stateStore:     stateStore,
		factService:    factService,
		llmProvider:    llmProvider,
		personaLoader:  personaLoader,
		publisher:      publisher,
		logger:         log,
		defaultPersona: defaultPersona,
		defaultMode:    defaultMode,
	}
}

func (s *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	personaName := strings.ToLower(req.Persona)
	if personaName == "" {
		personaName = s.defaultPersona
	}
	mode := strings.ToLower(req.Mode)
	if mode == "" {
		mode = s.defaultMode
	}

	bundle, err := s.personaLoader.Load(personaName)
	if err != nil {
		return nil, err
	}

	// Persist the user turn first; the history window below includes it.
	if err := s.turnStore.Push(ctx, personaName, mode, req.SessionId, "user", req.Message); err != nil {
		return nil, err
	}

	recent, err := s.turnStore.Recent(ctx, personaName, mode, req.SessionId, historyWindow)
	if err != nil {
		return nil, err
	}
	state, err := s.stateStore.Get(ctx, personaName, mode, req.SessionId)
	if err != nil {
		return nil, err
	}

	clarifyOnly := dialog.NeedsClarify(req.Message, state.NewTopic, state.LastAiShape)

	// On clarify-only turns the stage plan owns the questioning, so the
	// always-end-with-question directive is suppressed.
	system := persona.BuildSystemPrompt(bundle, mode, clarifyOnly)

	msgs := make([]llm.Message, 0, len(recent)+4)
	msgs = append(msgs, llm.Message{Role: "system", Content: system})

	if !clarifyOnly {
		factBlock, err := s.loadFactBlock(ctx, personaName, mode, req.SessionId, req.Message)
		if err != nil {
			return nil, err
		}
		if factBlock != "" {
			msgs = append(msgs, llm.Message{Role: "system", Content: "(Long-term memory: concise facts)\n" + factBlock})
		}
	}

	msgs = append(msgs, llm.Message{Role: "system", Content: persona.BuildStagePlan(bundle, clarifyOnly)})
	for _, t := range recent {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: req.Message})

	reply, err := s.llmProvider.Chat(ctx, msgs)
	if err != nil {
		return nil, err
	}
	reply = dialog.EnforceOneQuestion(reply, clarifyOnly)

	shape := dialog.ShapeAdvise
	if clarifyOnly {
		shape = dialog.ShapeClarify
	}

	if err := s.turnStore.Push(ctx, personaName, mode, req.SessionId, "assistant", reply); err != nil {
		return nil, err
	}
	if err := s.stateStore.Set(ctx, personaName, mode, req.SessionId, shape, false); err != nil {
		return nil, err
	}

	if !clarifyOnly {
		s.publishFactExtraction(ctx, personaName, mode, req.SessionId, reply)
	}

	return &dto.SendChatResponse{Reply: reply}, nil
}

// loadFactBlock runs the personal (session-scoped) and general
// (partition-wide) retrievals concurrently; both must finish before prompt
// assembly continues.
func (s *chatService) loadFactBlock(ctx context.Context, personaName, mode, sessionId, query string) (string, error) {
	var personal, general []*contract.ScoredFact

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		personal, err = s.factService.Query(gctx, personaName, mode, sessionId, query, personalFactQuota, true, retrievedFactTypes)
		return err
	})
	g.Go(func() error {
		var err error
		general, err = s.factService.Query(gctx, personaName, mode, sessionId, query, generalFactQuota, false, retrievedFactTypes)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	hits := make([]*contract.ScoredFact, 0, len(personal)+len(general))
	hits = append(hits, personal...)
	hits = append(hits, general...)

	var lines []string
	for _, h := range hits {
		if h.Fact != nil && h.Fact.Text != "" {
			lines = append(lines, "- "+h.Fact.Text)
		}
	}

	block := strings.Join(lines, "\n")
	if runes := []rune(block); len(runes) > factBlockLimit {
		block = string(runes[:factBlockLimit])
	}
	return block, nil
}

// publishFactExtraction hands the reply to the background fact pipeline.
// Publish failures are logged and dropped; the reply already stands.
func (s *chatService) publishFactExtraction(ctx context.Context, personaName, mode, sessionId, reply string) {
	payload, err := json.Marshal(dto.ExtractFactMessage{
		Persona:   personaName,
		Mode:      mode,
		SessionId: sessionId,
		Reply:     reply,
	})
	if err != nil {
		s.logger.Warn("Chat", "Failed to marshal fact extraction payload", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("Chat", "Failed to publish fact extraction event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (s *chatService) GetHistory(ctx context.Context, sessionId, personaName, mode string) (*dto.GetHistoryResponse, error) {
	p := strings.ToLower(personaName)
	if p == "" {
		p = s.defaultPersona
	}
	m := strings.ToLower(mode)
	if m == "" {
		m = s.defaultMode
	}

	turns, err := s.turnStore.Recent(ctx, p, m, sessionId, 0)
	if err != nil {
		return nil, err
	}

	recent := make([]dto.TurnDTO, len(turns))
	for i, t := range turns {
		recent[i] = dto.TurnDTO{Role: t.Role, Content: t.Content}
	}
	return &dto.GetHistoryResponse{Recent: recent}, nil
}
