package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/csheth/lexdesk/internal/advice"
	"github.com/csheth/lexdesk/internal/document"
	"github.com/csheth/lexdesk/internal/library"
	"github.com/csheth/lexdesk/internal/news"
	"github.com/csheth/lexdesk/internal/session"
	"github.com/csheth/lexdesk/internal/view"
)

type stubAdviser struct{}

func (stubAdviser) Name() string { return "stub" }

func (stubAdviser) Advise(context.Context, string, []advice.Turn) (advice.Reply, error) {
	return advice.Reply{Text: "ok"}, nil
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := session.NewStore(session.Greeting(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	conv := session.NewConversation(store, stubAdviser{}, session.WithLogger(logger))
	m := New(Config{
		Conversation:   conv,
		Logger:         logger,
		TranscriptPath: filepath.Join(t.TempDir(), "transcripts.json"),
		Clipboard:      func(string) error { return nil },
		ExtractPDF: func(string, int) (document.Text, error) {
			return document.Text{}, errors.New("unexpected extract")
		},
	}).(*model)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func typeInto(m *model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func pressRune(m *model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

func TestEnterSubmitsQuestionAndClearsComposer(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "My landlord kept my deposit")
	assert.Equal(t, "My landlord kept my deposit", m.ctrl.Input())

	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.conv.Busy())
	assert.Empty(t, m.composer.Value())
	assert.Empty(t, m.ctrl.Input())
	assert.Equal(t, composerBusyPlaceholder, m.composer.Placeholder)
	assert.Equal(t, 2, m.conv.Store().Len())

	m.Update(chatResultMsg{result: session.Result{
		Reply:   advice.Reply{Text: "Send a legal notice.", Sources: []advice.Source{{Title: "India Code", URI: "https://indiacode.nic.in"}}},
		Elapsed: 1500 * time.Millisecond,
	}})
	assert.False(t, m.conv.Busy())
	assert.Equal(t, 3, m.conv.Store().Len())
	assert.Equal(t, "Send a legal notice.", lastMessage(m.conv.Store()).Content)
	assert.Contains(t, m.infoMessage, "1 source cited")
	assert.Equal(t, composerPlaceholder, m.composer.Placeholder)
}

func TestDraftingStatusShowsElapsed(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "Can my employer withhold my salary?")
	press(m, tea.KeyEnter)

	require.NotNil(t, m.pending)
	started := lastMessage(m.conv.Store()).Timestamp
	assert.Equal(t, started, m.pending.Started)
	assert.Contains(t, m.draftingStatus(started.Add(4200*time.Millisecond)), "LexDesk is drafting… 4s")
	assert.Contains(t, m.View(), "LexDesk is drafting…")

	m.Update(chatResultMsg{result: session.Result{Reply: advice.Reply{Text: "Yes, file a complaint."}}})
	assert.Nil(t, m.pending)
	assert.NotContains(t, m.View(), "LexDesk is drafting…")
}

func TestSubmitWhileBusyKeepsInput(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "first")
	require.NotNil(t, press(m, tea.KeyEnter))

	typeInto(m, "second")
	assert.Nil(t, press(m, tea.KeyEnter))
	assert.Equal(t, "second", m.composer.Value())
	assert.Equal(t, 2, m.conv.Store().Len())
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "   ")
	assert.Nil(t, press(m, tea.KeyEnter))
	assert.False(t, m.conv.Busy())
	assert.Equal(t, 1, m.conv.Store().Len())
}

func TestFailedChatShowsFallback(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "hello")
	press(m, tea.KeyEnter)

	m.Update(jobResultEnvelope{
		Snapshot: jobSnapshot{Kind: jobKindChat, Status: jobStatusFailed},
		Payload:  chatResultMsg{result: session.Result{Err: errors.New("dial tcp: refused")}},
	})
	last := lastMessage(m.conv.Store())
	assert.Equal(t, session.ConnectionFallback, last.Content)
	assert.Empty(t, last.Sources)
	assert.NotEmpty(t, m.errorMessage)
	assert.Equal(t, jobStatusFailed, m.jobStates[jobKindChat].Status)
}

func TestEnteringNewsFetchesOnlyWhenNeeded(t *testing.T) {
	m := newTestModel(t)

	assert.Nil(t, press(m, tea.KeyTab))
	assert.Equal(t, view.Library, m.ctrl.Active())

	require.NotNil(t, press(m, tea.KeyTab))
	assert.Equal(t, view.News, m.ctrl.Active())
	assert.True(t, m.feed.Busy())

	// a second visit while loading does not start another fetch
	press(m, tea.KeyShiftTab)
	assert.Nil(t, press(m, tea.KeyTab))

	m.Update(newsResultMsg{result: news.Result{Items: []news.Item{{Title: "SC ruling", URL: "https://example.com"}}}})
	assert.False(t, m.feed.Busy())
	assert.Contains(t, m.infoMessage, "1 headline")

	press(m, tea.KeyShiftTab)
	assert.Nil(t, press(m, tea.KeyTab), "cached items are reused")

	require.NotNil(t, pressRune(m, 'r'), "manual refresh always fetches")
	assert.True(t, m.feed.Empty())
}

func TestNewsFailureKeepsRetryHint(t *testing.T) {
	m := newTestModel(t)
	m.navigate(view.News)
	m.Update(newsResultMsg{result: news.Result{Err: errors.New("timeout")}})
	assert.Contains(t, m.errorMessage, "Press r to retry")
	assert.Error(t, m.feed.LastError())
}

func TestLibrarySectionPrefillsComposer(t *testing.T) {
	m := newTestModel(t)
	press(m, tea.KeyTab)
	press(m, tea.KeyDown)
	assert.Equal(t, 1, m.libraryCursor)

	press(m, tea.KeyEnter)
	assert.Equal(t, view.Chat, m.ctrl.Active())
	assert.Equal(t, "Tell me more about Section 307 IPC.", m.composer.Value())
	assert.False(t, m.conv.Busy(), "selection never submits")
	assert.Equal(t, 1, m.conv.Store().Len())
}

func TestLibraryTemplatePrefillsComposer(t *testing.T) {
	m := newTestModel(t)
	m.navigate(view.Library)
	m.libraryCursor = quickSectionCount
	press(m, tea.KeyEnter)
	assert.Equal(t, view.Chat, m.ctrl.Active())
	assert.Equal(t, m.catalog.Templates[0].Prompt, m.composer.Value())
}

func TestDigitKeysOnlyNavigateOutsideChat(t *testing.T) {
	m := newTestModel(t)
	pressRune(m, '4')
	assert.Equal(t, view.Chat, m.ctrl.Active())
	assert.Equal(t, "4", m.composer.Value())

	press(m, tea.KeyTab)
	pressRune(m, '4')
	assert.Equal(t, view.Checklist, m.ctrl.Active())
}

func TestChecklistToggle(t *testing.T) {
	m := newTestModel(t)
	m.navigate(view.Checklist)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.checked[checkKey{list: 0, step: 0}])

	for i := 0; i < 6; i++ {
		press(m, tea.KeyDown)
	}
	pressRune(m, 'x')
	assert.True(t, m.checked[checkKey{list: 1, step: 0}])

	pressRune(m, 'x')
	assert.False(t, m.checked[checkKey{list: 1, step: 0}])
	assert.Contains(t, m.View(), "Post-Accident Steps (1/6)")
}

func TestResetRefusedWhileBusy(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "question")
	press(m, tea.KeyEnter)

	press(m, tea.KeyCtrlR)
	assert.Equal(t, 2, m.conv.Store().Len())
	assert.NotEmpty(t, m.errorMessage)

	m.Update(chatResultMsg{result: session.Result{Reply: advice.Reply{Text: "answer"}}})
	press(m, tea.KeyCtrlR)
	assert.Equal(t, 1, m.conv.Store().Len())
	assert.Equal(t, session.DefaultGreeting, lastMessage(m.conv.Store()).Content)
	assert.Empty(t, m.errorMessage)
}

func TestCopyWithoutDraft(t *testing.T) {
	m := newTestModel(t)
	assert.Nil(t, press(m, tea.KeyCtrlY))
	assert.Equal(t, errNoDraft.Error(), m.errorMessage)
}

func TestCopyDraftStartsJob(t *testing.T) {
	m := newTestModel(t)
	typeInto(m, "draft a notice")
	press(m, tea.KeyEnter)
	m.Update(chatResultMsg{result: session.Result{Reply: advice.Reply{Text: "Subject: Recovery of deposit\n\nDear [NAME],"}}})

	assert.NotNil(t, press(m, tea.KeyCtrlY))
	assert.Empty(t, m.errorMessage)

	m.Update(copyResultMsg{})
	assert.Equal(t, "Draft copied to clipboard.", m.infoMessage)
	m.Update(copyResultMsg{err: errors.New("xclip missing")})
	assert.Contains(t, m.errorMessage, "xclip missing")
}

func TestSlashCommands(t *testing.T) {
	m := newTestModel(t)

	typeInto(m, "/attach")
	assert.Nil(t, press(m, tea.KeyEnter))
	assert.Contains(t, m.errorMessage, "Usage: /attach")
	assert.Empty(t, m.composer.Value())

	typeInto(m, "/frobnicate")
	press(m, tea.KeyEnter)
	assert.Contains(t, m.errorMessage, "frobnicate")
	assert.Equal(t, 1, m.conv.Store().Len())

	typeInto(m, "/export")
	assert.NotNil(t, press(m, tea.KeyEnter))
}

func TestAttachResultSubmitsDocument(t *testing.T) {
	m := newTestModel(t)
	m.Update(attachResultMsg{
		text:     document.Text{Name: "notice.pdf", Body: "You are hereby notified", Truncated: true},
		question: "Is this valid?",
	})
	assert.True(t, m.conv.Busy())
	last := lastMessage(m.conv.Store())
	assert.True(t, last.IsDocument)
	assert.Equal(t, "Attached document: notice.pdf\n\nIs this valid?", last.Content)
	assert.Contains(t, m.infoMessage, "notice.pdf is long")

	m2 := newTestModel(t)
	m2.Update(attachResultMsg{err: document.ErrNoText})
	assert.Contains(t, m2.errorMessage, "Could not read document")
	assert.False(t, m2.conv.Busy())
}

func TestExportResultMessages(t *testing.T) {
	m := newTestModel(t)
	m.Update(exportResultMsg{path: "/tmp/t.json", count: 3})
	assert.Equal(t, "Exported 3 messages to /tmp/t.json", m.infoMessage)
	m.Update(exportResultMsg{err: errors.New("read-only")})
	assert.Equal(t, "Export failed: read-only", m.errorMessage)
}

func TestCatalogUpdateClampsCursor(t *testing.T) {
	m := newTestModel(t)
	m.libraryCursor = 9
	m.Update(CatalogUpdated(library.Catalog{
		Sections: []library.Section{{ID: "1", Title: "Section 1 IPC", Code: "IPC"}},
	}))
	require.Len(t, m.entries, 1)
	assert.Equal(t, 0, m.libraryCursor)
	assert.Equal(t, "Reference catalog reloaded.", m.infoMessage)
}

func TestViewShowsActivePane(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "LexDesk")

	m.navigate(view.Library)
	out := m.View()
	assert.Contains(t, out, "Section 302 IPC")
	assert.Contains(t, out, "FIR Draft")

	m.navigate(view.Checklist)
	assert.Contains(t, m.View(), "Filing an FIR (0/6)")
}

func lastMessage(s *session.Store) session.Message {
	msg, _ := s.Last()
	return msg
}
