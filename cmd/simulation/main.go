package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const baseURL = "http://localhost:3000/api/chat/v1"

// Simplified DTOs for the script
type SendChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Persona   string `json:"persona,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type SendChatResponse struct {
	Reply string `json:"reply"`
}

func main() {
	sessionID := uuid.NewString()

	color.Cyan("=== Mentor Chat Simulation Client ===")
	color.Cyan("Session: %s (persona=saint-paul, mode=friend)", sessionID)

	// A scripted arc: vague opener (should clarify), then a concrete
	// follow-up (should advise), then a short reply (never clarified).
	testCases := []string{
		"I feel bad",
		"My best friend stopped talking to me after an argument last week",
		"yes",
		"How do I start the conversation without making it worse?",
	}

	userLabel := color.New(color.FgGreen, color.Bold)
	aiLabel := color.New(color.FgMagenta, color.Bold)

	for _, text := range testCases {
		fmt.Println()
		userLabel.Print("USER: ")
		fmt.Println(text)

		start := time.Now()
		reply, err := sendChat(sessionID, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		aiLabel.Printf("AI (%v): ", elapsed.Round(time.Millisecond))
		fmt.Println(reply)

		// Small delay so the background fact extraction has a moment to run
		time.Sleep(1 * time.Second)
	}
}

func sendChat(sessionID, text string) (string, error) {
	payload := SendChatRequest{
		SessionID: sessionID,
		Message:   text,
		Persona:   "saint-paul",
		Mode:      "friend",
	}
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res SendChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	return res.Reply, nil
}
