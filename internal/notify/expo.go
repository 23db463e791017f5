package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultExpoURL is the Expo push gateway.
const DefaultExpoURL = "https://exp.host"

// expoChunkSize is the gateway's per-request message cap.
const expoChunkSize = 100

// ExpoClient delivers pushes through the Expo gateway. Run from the worker;
// each chunk is best-effort and a failed chunk never blocks the rest.
type ExpoClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewExpoClient(baseURL string) *ExpoClient {
	if baseURL == "" {
		baseURL = DefaultExpoURL
	}
	return &ExpoClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type expoMessage struct {
	To        string            `json:"to"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Color     string            `json:"color"`
	Sound     string            `json:"sound"`
	ChannelID string            `json:"channelId"`
}

// IsExpoToken reports whether t looks like a token the gateway will accept.
func IsExpoToken(t string) bool {
	return strings.HasPrefix(t, "ExponentPushToken[") && strings.HasSuffix(t, "]")
}

// Deliver filters out non-Expo tokens, chunks the rest and posts each chunk.
// Returns the number of messages handed to the gateway.
func (c *ExpoClient) Deliver(ctx context.Context, p Push) int {
	var messages []expoMessage
	for _, token := range p.Tokens {
		if !IsExpoToken(token) {
			continue
		}
		messages = append(messages, expoMessage{
			To:        token,
			Title:     p.Title,
			Body:      p.Body,
			Data:      p.Data,
			Color:     "#6366f1",
			Sound:     "notification.wav",
			ChannelID: "custom-alert",
		})
	}

	sent := 0
	for start := 0; start < len(messages); start += expoChunkSize {
		end := start + expoChunkSize
		if end > len(messages) {
			end = len(messages)
		}
		chunk := messages[start:end]
		if err := c.post(ctx, chunk); err != nil {
			log.Printf("notify: expo chunk of %d failed: %v", len(chunk), err)
			continue
		}
		sent += len(chunk)
	}
	return sent
}

func (c *ExpoClient) post(ctx context.Context, chunk []expoMessage) error {
	body, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/--/api/v2/push/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("expo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expo error %s: %s", resp.Status, string(respBody))
	}
	return nil
}
