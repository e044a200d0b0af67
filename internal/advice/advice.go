// Package advice is the boundary to hosted text-generation services: one prompt plus a
// trimmed history in, reply text plus grounding citations out.
package advice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultGeminiModel = "gemini-3-pro-preview"
	defaultOllamaModel = "llama3.1:8b"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaHost  = "http://localhost:11434"
	defaultOpenAIBase  = "https://api.openai.com/v1"

	// DefaultSourceTitle labels a citation that arrived without a title.
	DefaultSourceTitle = "Legal Reference"
	// EmptyReplyText stands in for a model reply that carried no text.
	EmptyReplyText = "I apologize, but I couldn't generate a response. Please try rephrasing your legal query."
)

const defaultHTTPTimeout = 3 * time.Minute

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is the {role, content} projection of a message handed to a backend.
type Turn struct {
	Role    Role
	Content string
}

// Source is a grounding citation returned alongside generated text. URI is never empty.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// RawSource is citation metadata as a backend reports it; either field may be missing.
type RawSource struct {
	Title string
	URI   string
}

// Reply is the text and citations produced for one prompt.
type Reply struct {
	Text    string
	Sources []Source
}

// Adviser forwards a prompt plus trimmed history to a hosted text-generation service.
type Adviser interface {
	Advise(ctx context.Context, prompt string, history []Turn) (Reply, error)
	Name() string
}

// Error reports a failed or unusable adapter call.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrEmptyPrompt is returned when Advise is called with a blank prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

func fail(backend, op string, err error) error {
	var adviceErr *Error
	if errors.As(err, &adviceErr) {
		return err
	}
	return &Error{Backend: backend, Op: op, Err: err}
}

// NormalizeSources applies the citation defaults once, at the adapter boundary:
// blank titles become DefaultSourceTitle and entries without a URI are dropped.
func NormalizeSources(raw []RawSource) []Source {
	sources := make([]Source, 0, len(raw))
	for _, entry := range raw {
		uri := strings.TrimSpace(entry.URI)
		if uri == "" {
			continue
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = DefaultSourceTitle
		}
		sources = append(sources, Source{Title: title, URI: uri})
	}
	return sources
}

func replyText(text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptyReplyText
	}
	return text
}

// Config describes how to build an Adviser.
type Config struct {
	Backend         string
	Model           string
	Endpoint        string
	APIKey          string
	SearchGrounding bool
	HTTPClient      *http.Client
}

// New builds the configured backend, falling back to the conventional environment
// variables of each provider for missing values.
func New(ctx context.Context, cfg Config) (Adviser, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "gemini":
		key := firstNonEmpty(cfg.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("gemini backend needs an API key (set LEXDESK_API_KEY or GEMINI_API_KEY)")
		}
		return newGeminiClient(ctx, geminiOptions{
			apiKey:     key,
			model:      firstNonEmpty(cfg.Model, defaultGeminiModel),
			baseURL:    cfg.Endpoint,
			search:     cfg.SearchGrounding,
			httpClient: pickHTTPClient(cfg.HTTPClient),
		})
	case "ollama":
		host := firstNonEmpty(cfg.Endpoint, strings.TrimRight(os.Getenv("OLLAMA_HOST"), "/"), defaultOllamaHost)
		return &ollamaClient{
			host:   host,
			model:  firstNonEmpty(cfg.Model, os.Getenv("OLLAMA_MODEL"), defaultOllamaModel),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case "openai":
		key := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("openai backend needs an API key (set LEXDESK_API_KEY or OPENAI_API_KEY)")
		}
		return &openAIClient{
			apiKey: key,
			model:  firstNonEmpty(cfg.Model, defaultOpenAIModel),
			base:   strings.TrimRight(firstNonEmpty(cfg.Endpoint, defaultOpenAIBase), "/"),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown advice backend %q", cfg.Backend)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Grounded generations can take well over a minute; callers cancel through ctx.
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
