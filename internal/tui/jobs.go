package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/lexdesk/internal/logging"
)

type jobKind string

type jobStatus string

const (
	jobKindChat   jobKind = "chat"
	jobKindNews   jobKind = "news"
	jobKindAttach jobKind = "attach"
	jobKindExport jobKind = "export"
	jobKindCopy   jobKind = "copy"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs work off the Update goroutine. Runners must not touch model
// state; their payload comes back through Update as a jobResultEnvelope.
type jobBus struct {
	counter int64
	ctx     context.Context
	logger  *zap.Logger
}

func newJobBus(ctx context.Context, logger *zap.Logger) *jobBus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &jobBus{ctx: ctx, logger: logging.OrNop(logger).Named("jobs")}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	startCmd, runCmd := b.commands(kind, runner)
	return tea.Sequence(startCmd, runCmd)
}

// commands returns the announce and run halves of a job.
func (b *jobBus) commands(kind jobKind, runner jobRunner) (tea.Cmd, tea.Cmd) {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(b.ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		b.logger.Debug("job finished",
			zap.String("id", id),
			zap.String("status", string(snapshot.Status)),
			zap.Duration("duration", snapshot.Duration),
			zap.Error(err))
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return startCmd, runCmd
}
