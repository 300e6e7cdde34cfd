package controller

import (
	"io"
	"strings"

	"mentor-chat-be/internal/dto"
	"mentor-chat-be/internal/pkg/serverutils"
	"mentor-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	SpeechToText(ctx *fiber.Ctx) error
	TextToSpeech(ctx *fiber.Ctx) error
}

type voiceController struct {
	voiceService service.IVoiceService
}

func NewVoiceController(voiceService service.IVoiceService) IVoiceController {
	return &voiceController{
		voiceService: voiceService,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice/v1")
	h.Post("stt", c.SpeechToText)
	h.Post("tts", c.TextToSpeech)
}

// SpeechToText accepts either raw audio (webm/wav body) or multipart
// form-data with a "file" field, and returns the transcript.
func (c *voiceController) SpeechToText(ctx *fiber.Ctx) error {
	contentType := ctx.Get("Content-Type")

	var audio []byte
	if strings.Contains(contentType, "multipart/form-data") {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "no audio file found in request")
		}
		f, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()
		audio, err = io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		contentType = fileHeader.Header.Get("Content-Type")
	} else {
		audio = ctx.Body()
	}

	if len(audio) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no audio provided")
	}
	if strings.Contains(contentType, "wav") {
		contentType = "audio/wav"
	} else {
		contentType = "audio/webm"
	}

	text, err := c.voiceService.Transcribe(ctx.Context(), audio, contentType)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return ctx.JSON(dto.TranscribeResponse{Text: text})
}

// TextToSpeech returns a complete MP3 buffer for the given text.
func (c *voiceController) TextToSpeech(ctx *fiber.Ctx) error {
	var req dto.SynthesizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	audio, err := c.voiceService.Synthesize(ctx.Context(), req.Text, req.VoiceID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	ctx.Set("Content-Type", "audio/mpeg")
	ctx.Set("Cache-Control", "no-store")
	return ctx.Send(audio)
}
