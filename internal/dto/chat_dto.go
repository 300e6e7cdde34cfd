package dto

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Persona   string `json:"persona"`
	Mode      string `json:"mode"`
}

type SendChatResponse struct {
	Reply string `json:"reply"`
}

type TurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetHistoryResponse struct {
	Recent []TurnDTO `json:"recent"`
}

// ExtractFactMessage is the payload published to the fact-extraction topic
// after a full advice turn.
type ExtractFactMessage struct {
	Persona   string `json:"persona"`
	Mode      string `json:"mode"`
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
}
