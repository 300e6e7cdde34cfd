// Package voice wraps the ElevenLabs speech endpoints. The core only passes
// audio through; no transcoding happens here.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.elevenlabs.io"

type ElevenLabsClient struct {
	BaseURL  string
	APIKey   string
	STTModel string
	TTSModel string
	VoiceID  string
	Client   *http.Client
}

func NewElevenLabsClient(apiKey, sttModel, ttsModel, voiceID string) *ElevenLabsClient {
	if sttModel == "" {
		sttModel = "scribe_v1"
	}
	if ttsModel == "" {
		ttsModel = "eleven_multilingual_v2"
	}
	return &ElevenLabsClient{
		BaseURL:  defaultBaseURL,
		APIKey:   apiKey,
		STTModel: sttModel,
		TTSModel: ttsModel,
		VoiceID:  voiceID,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type sttResponse struct {
	Text       string `json:"text"`
	Transcript string `json:"transcript"`
}

// Transcribe sends raw audio to the speech-to-text endpoint and returns the
// transcript. Transcription is pinned to English; auto language detection is
// disabled on purpose.
func (c *ElevenLabsClient) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio provided")
	}

	filename := "audio.webm"
	if contentType == "audio/wav" {
		filename = "audio.wav"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	_ = w.WriteField("model_id", c.STTModel)
	_ = w.WriteField("language_code", "en")
	_ = w.WriteField("language", "en")
	_ = w.WriteField("task", "transcribe")
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stt upstream error: status %d: %s", resp.StatusCode, string(respBody))
	}

	var out sttResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if out.Text != "" {
		return out.Text, nil
	}
	return out.Transcript, nil
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize renders text to a complete MP3 buffer via the non-stream
// endpoint. Streaming playback can skip the first few words, so the full
// buffer is preferred.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("missing text")
	}
	if voiceID == "" {
		voiceID = c.VoiceID
	}

	payload, err := json.Marshal(ttsRequest{Text: text, ModelID: c.TTSModel})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.BaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts upstream error: status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
