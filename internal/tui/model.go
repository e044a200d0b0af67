package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/lexdesk/internal/advice"
	"github.com/csheth/lexdesk/internal/document"
	"github.com/csheth/lexdesk/internal/library"
	"github.com/csheth/lexdesk/internal/logging"
	"github.com/csheth/lexdesk/internal/news"
	"github.com/csheth/lexdesk/internal/session"
	"github.com/csheth/lexdesk/internal/transcript"
	"github.com/csheth/lexdesk/internal/view"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Conversation   *session.Conversation
	Feed           *news.Feed
	Catalog        library.Catalog
	TranscriptPath string
	Logger         *zap.Logger
	// Context bounds background jobs; cancel it to abandon in-flight requests.
	Context context.Context
	// Clipboard receives copied drafts. Defaults to the system clipboard.
	Clipboard  func(string) error
	ExtractPDF func(path string, limit int) (document.Text, error)
}

type checkKey struct {
	list int
	step int
}

type model struct {
	config Config
	logger *zap.Logger

	conv    *session.Conversation
	feed    *news.Feed
	ctrl    *view.Controller
	catalog library.Catalog
	entries []libraryEntry

	composer textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	layout   pageLayout

	jobs      *jobBus
	jobStates map[jobKind]jobSnapshot
	pending   *session.Request

	libraryCursor   int
	checklistCursor int
	checked         map[checkKey]bool
	detailCache     map[string]string

	transcriptDirty bool
	infoMessage     string
	errorMessage    string
	helpVisible     bool
}

// New returns a tea.Model ready to be mounted into a Program. Missing
// collaborators fall back to an offline conversation and the built-in catalog.
func New(config Config) tea.Model {
	config.Logger = logging.OrNop(config.Logger)
	if config.Conversation == nil {
		store := session.NewStore(session.Greeting(time.Now()))
		config.Conversation = session.NewConversation(store, advice.NewMock(), session.WithLogger(config.Logger))
	}
	if config.Feed == nil {
		config.Feed = news.NewFeed(config.Conversation.Adviser(), news.WithLogger(config.Logger))
	}
	if len(config.Catalog.Sections) == 0 && len(config.Catalog.Templates) == 0 && len(config.Catalog.Checklists) == 0 {
		config.Catalog = library.Default()
	}
	if config.Clipboard == nil {
		config.Clipboard = clipboard.WriteAll
	}
	if config.ExtractPDF == nil {
		config.ExtractPDF = document.ExtractPDF
	}
	if config.TranscriptPath == "" {
		config.TranscriptPath = transcript.DefaultPath()
	}

	composer := textinput.New()
	composer.Placeholder = composerPlaceholder
	composer.CharLimit = 4000
	composer.Width = 70
	composer.Prompt = "› "
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:          config,
		logger:          config.Logger.Named("tui"),
		conv:            config.Conversation,
		feed:            config.Feed,
		ctrl:            view.NewController(),
		composer:        composer,
		viewport:        vp,
		spinner:         spin,
		layout:          newPageLayout(),
		jobs:            newJobBus(config.Context, config.Logger),
		jobStates:       map[jobKind]jobSnapshot{},
		checked:         map[checkKey]bool{},
		detailCache:     map[string]string{},
		transcriptDirty: true,
		infoMessage:     "Describe what happened, or press tab to browse sections and templates.",
	}
	m.setCatalog(config.Catalog)

	m.conv.Store().Subscribe(func(session.Event) { m.transcriptDirty = true })
	m.ctrl.Subscribe(func(ev view.Event) {
		m.logger.Debug("pane changed", zap.Stringer("from", ev.From), zap.Stringer("to", ev.To))
	})
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.composer.Width = m.layout.viewportWidth - 4
		m.detailCache = map[string]string{}
		m.transcriptDirty = true
		return m, nil
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.jobStates[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobStates[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case chatResultMsg:
		reply := m.conv.Resolve(msg.result)
		m.pending = nil
		m.composer.Placeholder = composerPlaceholder
		if msg.result.Err != nil {
			m.errorMessage = "The adviser could not be reached. Details are in the log."
		} else {
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Reply received in %s.", msg.result.Elapsed.Round(100*time.Millisecond))
		}
		if len(reply.Sources) > 0 {
			m.infoMessage += " " + pluralize(len(reply.Sources), "source") + " cited."
		}
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil
	case newsResultMsg:
		m.feed.Resolve(msg.result)
		if msg.result.Err != nil {
			m.errorMessage = "Unable to load legal news. Press r to retry."
		} else {
			m.infoMessage = fmt.Sprintf("Loaded %s.", pluralize(len(msg.result.Items), "headline"))
		}
		return m, nil
	case attachResultMsg:
		return m, m.submitDocument(msg)
	case exportResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Exported %s to %s", pluralize(msg.count, "message"), msg.path)
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Draft copied to clipboard."
		return m, nil
	case catalogUpdatedMsg:
		m.setCatalog(msg.catalog)
		m.infoMessage = "Reference catalog reloaded."
		return m, nil
	case tea.MouseMsg:
		if m.ctrl.Active() == view.Chat {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m, m.navigate(m.ctrl.Active().Next())
	case "shift+tab":
		return m, m.navigate(m.ctrl.Active().Prev())
	case "ctrl+r":
		m.resetConversation()
		return m, nil
	case "ctrl+y":
		return m, m.copyDraft()
	}

	if m.ctrl.Active() == view.Chat {
		return m, m.handleChatKey(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "1", "2", "3", "4":
		return m, m.navigate(view.Panes[int(key.Runes[0]-'1')])
	}

	switch m.ctrl.Active() {
	case view.Library:
		return m, m.handleLibraryKey(key)
	case view.News:
		return m, m.handleNewsKey(key)
	case view.Checklist:
		m.handleChecklistKey(key)
	}
	return m, nil
}

func (m *model) handleChatKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEnter:
		return m.submitComposer()
	case tea.KeyEsc:
		m.composer.SetValue("")
		m.ctrl.SetInput("")
		return nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return cmd
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	m.ctrl.SetInput(m.composer.Value())
	return cmd
}

func (m *model) handleLibraryKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		if m.libraryCursor > 0 {
			m.libraryCursor--
		}
	case "down", "j":
		if m.libraryCursor < len(m.entries)-1 {
			m.libraryCursor++
		}
	case "enter":
		m.selectLibraryEntry()
	}
	return nil
}

func (m *model) handleNewsKey(key tea.KeyMsg) tea.Cmd {
	if key.String() == "r" {
		return m.startNews(true)
	}
	return nil
}

func (m *model) handleChecklistKey(key tea.KeyMsg) {
	total := m.checklistStepCount()
	switch key.String() {
	case "up", "k":
		if m.checklistCursor > 0 {
			m.checklistCursor--
		}
	case "down", "j":
		if m.checklistCursor < total-1 {
			m.checklistCursor++
		}
	case " ", "x", "enter":
		if k, ok := m.checklistKeyAt(m.checklistCursor); ok {
			m.checked[k] = !m.checked[k]
		}
	}
}

// navigate switches panes and starts a news fetch when the feed wants one.
func (m *model) navigate(p view.Pane) tea.Cmd {
	ev := m.ctrl.Navigate(p)
	m.syncComposer()
	if ev.EnteredNews {
		return m.startNews(false)
	}
	return nil
}

// syncComposer mirrors the controller's pending input into the text field and
// focuses it only while chat is showing.
func (m *model) syncComposer() {
	if m.ctrl.Active() != view.Chat {
		m.composer.Blur()
		return
	}
	if m.composer.Value() != m.ctrl.Input() {
		m.composer.SetValue(m.ctrl.Input())
		m.composer.CursorEnd()
	}
	m.composer.Focus()
}

func (m *model) submitComposer() tea.Cmd {
	raw := m.composer.Value()
	if cmd, ok := parseSlash(raw); ok {
		m.clearComposer()
		return m.runSlash(cmd)
	}
	req, err := m.conv.Submit(raw)
	switch {
	case errors.Is(err, session.ErrEmptyInput), errors.Is(err, session.ErrBusy):
		return nil
	case err != nil:
		m.errorMessage = err.Error()
		return nil
	}
	m.clearComposer()
	return m.startChat(req)
}

func (m *model) startChat(req *session.Request) tea.Cmd {
	m.pending = req
	m.errorMessage = ""
	m.infoMessage = ""
	m.composer.Placeholder = composerBusyPlaceholder
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return tea.Batch(m.jobs.Start(jobKindChat, chatJob(req)), m.spinner.Tick)
}

func (m *model) clearComposer() {
	m.ctrl.TakeInput()
	m.composer.SetValue("")
}

func (m *model) runSlash(cmd slashCommand) tea.Cmd {
	switch cmd.name {
	case "reset", "new":
		m.resetConversation()
		return nil
	case "copy":
		return m.copyDraft()
	case "attach":
		if len(cmd.args) == 0 {
			m.errorMessage = "Usage: /attach <file.pdf> [question]"
			return nil
		}
		if m.conv.Busy() || m.jobRunning(jobKindAttach) {
			m.errorMessage = "Wait for the current reply before attaching a document."
			return nil
		}
		m.errorMessage = ""
		m.infoMessage = "Reading " + cmd.args[0] + "…"
		question := strings.Join(cmd.args[1:], " ")
		return tea.Batch(m.jobs.Start(jobKindAttach, attachJob(m.config.ExtractPDF, cmd.args[0], question)), m.spinner.Tick)
	case "export":
		path := m.config.TranscriptPath
		if len(cmd.args) > 0 {
			path = expandHome(cmd.args[0])
		}
		snapshot := transcript.FromMessages(uuid.NewString(), m.conv.Adviser().Name(), m.conv.Store().Messages(), time.Now())
		return m.jobs.Start(jobKindExport, exportJob(path, snapshot))
	case "help":
		m.helpVisible = !m.helpVisible
		m.infoMessage = strings.ReplaceAll(slashHelp(), "\n", " · ")
		return nil
	default:
		m.errorMessage = unknownCommand(cmd.name)
		return nil
	}
}

func (m *model) submitDocument(msg attachResultMsg) tea.Cmd {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("Could not read document: %v", msg.err)
		return nil
	}
	req, err := m.conv.SubmitDocument(msg.text.Name, msg.text.Body, msg.question)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Could not send document: %v", err)
		return nil
	}
	cmd := m.startChat(req)
	if msg.text.Truncated {
		m.infoMessage = fmt.Sprintf("%s is long; only the first %d characters were sent.", msg.text.Name, document.DefaultLimit)
	}
	return cmd
}

func (m *model) resetConversation() {
	if err := m.conv.Reset(); err != nil {
		m.errorMessage = "Wait for LexDesk to finish before starting over."
		return
	}
	m.errorMessage = ""
	m.infoMessage = "Started a new consultation."
	m.refreshTranscript()
	m.viewport.GotoTop()
}

func (m *model) copyDraft() tea.Cmd {
	text, ok := latestDraft(m.conv.Store().Messages())
	if !ok {
		m.errorMessage = errNoDraft.Error()
		return nil
	}
	return m.jobs.Start(jobKindCopy, copyJob(m.config.Clipboard, text))
}

func (m *model) startNews(force bool) tea.Cmd {
	fetch, ok := m.feed.Begin(force)
	if !ok {
		return nil
	}
	m.errorMessage = ""
	m.infoMessage = "Fetching the latest legal updates…"
	return tea.Batch(m.jobs.Start(jobKindNews, newsJob(fetch)), m.spinner.Tick)
}

func (m *model) setCatalog(c library.Catalog) {
	m.catalog = c
	m.entries = m.entries[:0]
	for _, s := range c.QuickSections(quickSectionCount) {
		m.entries = append(m.entries, libraryEntry{section: &s})
	}
	for i := range c.Templates {
		t := c.Templates[i]
		m.entries = append(m.entries, libraryEntry{template: &t})
	}
	if m.libraryCursor >= len(m.entries) {
		m.libraryCursor = max(len(m.entries)-1, 0)
	}
	if total := m.checklistStepCount(); m.checklistCursor >= total {
		m.checklistCursor = max(total-1, 0)
	}
	m.detailCache = map[string]string{}
}

func (m *model) selectLibraryEntry() {
	if m.libraryCursor < 0 || m.libraryCursor >= len(m.entries) {
		return
	}
	entry := m.entries[m.libraryCursor]
	if entry.section != nil {
		m.ctrl.SelectSection(*entry.section)
		m.infoMessage = "Question ready. Edit it or press enter to ask."
	} else {
		m.ctrl.SelectTemplate(*entry.template)
		m.infoMessage = "Template loaded. Fill in the [brackets] and press enter."
	}
	m.syncComposer()
}

func (m *model) checklistStepCount() int {
	total := 0
	for _, cl := range m.catalog.Checklists {
		total += len(cl.Steps)
	}
	return total
}

func (m *model) checklistKeyAt(idx int) (checkKey, bool) {
	for li, cl := range m.catalog.Checklists {
		if idx < len(cl.Steps) {
			return checkKey{list: li, step: idx}, true
		}
		idx -= len(cl.Steps)
	}
	return checkKey{}, false
}

func (m *model) jobRunning(kind jobKind) bool {
	snap, ok := m.jobStates[kind]
	return ok && snap.Status == jobStatusRunning
}

func (m *model) busy() bool {
	return m.conv.Busy() || m.feed.Busy() || m.jobRunning(jobKindAttach)
}

func (m *model) refreshTranscript() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderTranscript(m.conv.Store().Messages(), m.wrapWidth(2)))
	m.transcriptDirty = false
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *model) refreshTranscriptIfDirty() {
	if m.transcriptDirty {
		m.refreshTranscript()
	}
}
