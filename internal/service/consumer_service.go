package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mentor-chat-be/internal/dto"
	"mentor-chat-be/internal/pkg/logger"
	"mentor-chat-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Fact text cap, matching the column contract for stored facts.
const maxFactLength = 300

// summarizerSystemPrompt asks for exactly one compact reusable fact,
// retaining any scripture citation.
const summarizerSystemPrompt = "You are a concise summarizer for a Christian mentoring assistant. " +
	"Return exactly one short reusable fact (at most ~25 words). " +
	"If a verse is present, append (Book Chap:Verse). No quotes."

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs the fact extraction pipeline: it summarizes a full
// advice turn into one reusable fact and writes it to the fact store. The
// pipeline is best-effort; every failure is logged and dropped, never
// retried, and never reaches the response path.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	llmProvider llm.LLMProvider
	factService IFactService
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	llmProvider llm.LLMProvider,
	factService IFactService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		llmProvider: llmProvider,
		factService: factService,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
			// Best-effort pipeline: always ack, never redeliver
			msg.Ack()
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ExtractFactMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("FactPipeline", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		return
	}

	fact, err := cs.summarize(ctx, payload.Reply)
	if err != nil {
		cs.logger.Warn("FactPipeline", "Summarization failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		return
	}
	if fact == "" {
		return
	}

	id := fmt.Sprintf("fact-%s-%s-%s-%d", payload.Persona, payload.Mode, payload.SessionId, time.Now().UnixMilli())
	err = cs.factService.Write(ctx, payload.Persona, payload.Mode, payload.SessionId, []FactInput{
		{
			Id:   id,
			Text: fact,
			Metadata: map[string]interface{}{
				"type":   "advice_fact",
				"source": "conversation",
			},
		},
	})
	if err != nil {
		cs.logger.Warn("FactPipeline", "Fact write failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		return
	}

	cs.logger.Info("FactPipeline", "Stored advice fact", map[string]interface{}{
		"session_id": payload.SessionId,
		"fact_id":    id,
	})
}

func (cs *consumerService) summarize(ctx context.Context, reply string) (string, error) {
	msgs := []llm.Message{
		{Role: "system", Content: summarizerSystemPrompt},
		{Role: "user", Content: "Summarize this assistant reply into one reusable fact:\n\n" + reply},
	}
	out, err := cs.llmProvider.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}

	fact := strings.TrimSpace(out)
	if runes := []rune(fact); len(runes) > maxFactLength {
		fact = string(runes[:maxFactLength])
	}
	return fact, nil
}
