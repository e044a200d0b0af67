package advice

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type geminiOptions struct {
	apiKey     string
	model      string
	baseURL    string
	search     bool
	httpClient *http.Client
}

type geminiClient struct {
	client *genai.Client
	model  string
	search bool
}

func newGeminiClient(ctx context.Context, opts geminiOptions) (*geminiClient, error) {
	config := &genai.ClientConfig{
		APIKey:     opts.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.httpClient,
	}
	if opts.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: opts.baseURL}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &geminiClient{client: client, model: opts.model, search: opts.search}, nil
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *geminiClient) Advise(ctx context.Context, prompt string, history []Turn) (Reply, error) {
	if strings.TrimSpace(prompt) == "" {
		return Reply{}, fail("gemini", "advise", ErrEmptyPrompt)
	}
	res, err := c.client.Models.GenerateContent(ctx, c.model, geminiContents(prompt, history), c.generateConfig())
	if err != nil {
		return Reply{}, fail("gemini", "generate content", err)
	}
	return replyFromResponse(res), nil
}

func (c *geminiClient) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	if c.search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

func geminiContents(prompt string, history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}

// replyFromResponse extracts the text and the web grounding chunks of the first candidate.
func replyFromResponse(res *genai.GenerateContentResponse) Reply {
	if res == nil {
		return Reply{Text: EmptyReplyText}
	}
	reply := Reply{Text: replyText(res.Text())}
	if len(res.Candidates) == 0 || res.Candidates[0] == nil {
		return reply
	}
	meta := res.Candidates[0].GroundingMetadata
	if meta == nil {
		return reply
	}
	raw := make([]RawSource, 0, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		raw = append(raw, RawSource{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	reply.Sources = NormalizeSources(raw)
	return reply
}
