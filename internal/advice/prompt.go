package advice

import (
	"strings"
)

// SystemInstruction sets the legal-counsel persona for every backend.
const SystemInstruction = `You are "LexDesk", an expert AI Legal Consultant for Indian Law.

Core Capabilities:
1. Legal Analysis: Identify IPC/BNS/CrPC/BNSS sections.
2. Documentation: Draft professional legal documents using [PLACEHOLDERS].
3. Legal News: When asked about current events, use Google Search to find latest judgments or law changes.

Style:
- Professional, objective, and authoritative yet helpful.
- Use Markdown for structure.
- Always add: "Disclaimer: This is AI guidance, not legal advice."`

// maxDocumentChars keeps attached documents well inside every backend's context window.
const maxDocumentChars = 60_000

const defaultDocumentQuestion = "Summarize the legal issues in this document and list the relevant IPC/BNS sections."

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// DocumentPrompt wraps extracted document text and the user's question into one prompt.
func DocumentPrompt(name, text, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		question = defaultDocumentQuestion
	}
	var b strings.Builder
	b.WriteString("I am sharing the text of a document")
	if name = strings.TrimSpace(name); name != "" {
		b.WriteString(" (" + name + ")")
	}
	b.WriteString(".\n\nDocument:\n")
	b.WriteString(clipText(text, maxDocumentChars))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatMessages lays out system instruction, history and prompt in the
// role/content shape shared by the Ollama and OpenAI chat endpoints.
func chatMessages(prompt string, history []Turn) []chatMessage {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: SystemInstruction})
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Content})
	}
	return append(messages, chatMessage{Role: "user", Content: prompt})
}
