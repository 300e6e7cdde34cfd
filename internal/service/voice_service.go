package service

import (
	"context"

	"mentor-chat-be/pkg/voice"
)

// IVoiceService is a thin pass-through to the speech provider; no decision
// logic lives here.
type IVoiceService interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

type voiceService struct {
	client *voice.ElevenLabsClient
}

func NewVoiceService(client *voice.ElevenLabsClient) IVoiceService {
	return &voiceService{client: client}
}

func (s *voiceService) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	return s.client.Transcribe(ctx, audio, contentType)
}

func (s *voiceService) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	return s.client.Synthesize(ctx, text, voiceID)
}
