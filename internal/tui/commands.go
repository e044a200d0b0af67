package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/lexdesk/internal/advice"
	"github.com/csheth/lexdesk/internal/document"
	"github.com/csheth/lexdesk/internal/format"
	"github.com/csheth/lexdesk/internal/news"
	"github.com/csheth/lexdesk/internal/session"
	"github.com/csheth/lexdesk/internal/transcript"
)

var errNoDraft = errors.New("no drafted document to copy yet")

type slashCommand struct {
	name string
	args []string
}

// parseSlash splits "/name arg1 arg2" input. Only input starting with '/' is a command.
func parseSlash(input string) (slashCommand, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return slashCommand{}, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return slashCommand{}, false
	}
	return slashCommand{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

func chatJob(req *session.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.Run(ctx)
		return chatResultMsg{result: res}, res.Err
	}
}

func newsJob(fetch *news.Fetch) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := fetch.Run(ctx)
		return newsResultMsg{result: res}, res.Err
	}
}

func attachJob(extract func(string, int) (document.Text, error), path, question string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		text, err := extract(expandHome(path), document.DefaultLimit)
		return attachResultMsg{text: text, question: question, err: err}, err
	}
}

func exportJob(path string, snapshot transcript.Snapshot) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		err := transcript.Save(path, snapshot)
		return exportResultMsg{path: path, count: len(snapshot.Messages), err: err}, err
	}
}

func copyJob(write func(string) error, text string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		err := write(text)
		return copyResultMsg{err: err}, err
	}
}

// latestDraft finds the newest assistant reply that reads like a drafted document.
func latestDraft(msgs []session.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Role == advice.RoleAssistant && format.ContainsDraft(msg.Content) {
			return msg.Content, true
		}
	}
	return "", false
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func slashHelp() string {
	return strings.Join([]string{
		"/reset                      start a new consultation",
		"/copy                       copy the latest drafted document",
		"/attach <file.pdf> [question]  analyze a PDF",
		"/export [path]              save this consultation as JSON",
	}, "\n")
}

func unknownCommand(name string) string {
	return fmt.Sprintf("Unknown command /%s. Try /reset, /copy, /attach or /export.", name)
}
