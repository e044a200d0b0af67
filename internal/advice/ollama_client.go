package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) Advise(ctx context.Context, prompt string, history []Turn) (Reply, error) {
	if strings.TrimSpace(prompt) == "" {
		return Reply{}, fail("ollama", "advise", ErrEmptyPrompt)
	}
	text, err := c.chat(ctx, chatMessages(prompt, history))
	if err != nil {
		return Reply{}, fail("ollama", "chat", err)
	}
	return Reply{Text: replyText(text)}, nil
}

func (c *ollamaClient) chat(ctx context.Context, messages []chatMessage) (string, error) {
	payload := map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   false,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		Done bool `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return strings.TrimSpace(parsed.Message.Content), nil
}
