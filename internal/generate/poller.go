package generate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/logger"
	"github.com/timmy/memeboard/internal/monitoring"
)

// ErrJobActive is returned when a new job is submitted while a
// non-terminal one is being tracked. One generation job per session.
var ErrJobActive = errors.New("generate: a generation job is already in flight")

// StatusFetcher polls one job's status. Implemented by the backend
// client and by test fakes.
type StatusFetcher interface {
	JobStatus(ctx context.Context, id string) (*domain.GenerationJob, error)
}

// Config holds poller tuning.
type Config struct {
	// Interval between status requests while the job is non-terminal.
	Interval time.Duration
}

// JobSnapshot is the poller state exposed to the rendering layer.
type JobSnapshot struct {
	State domain.JobState       `json:"state"`
	Job   *domain.GenerationJob `json:"job,omitempty"`
}

// Poller drives a single generation job through its client-side state
// machine:
//
//	idle -> submitted -> polling -> completed | failed | lost
//
// The job id is persisted to the store the moment it is known and
// cleared on every terminal transition, so a process restart resumes
// polling instead of losing the job.
type Poller struct {
	fetcher  StatusFetcher
	store    JobStore
	metrics  *monitoring.Metrics
	interval time.Duration

	// onTerminal, when set, is called once per job after a terminal
	// transition. The web layer uses it to invalidate the feed cache
	// on completion.
	onTerminal func(state domain.JobState, job *domain.GenerationJob)

	mu     sync.Mutex
	state  domain.JobState
	job    *domain.GenerationJob
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates an idle poller.
func NewPoller(fetcher StatusFetcher, store JobStore, metrics *monitoring.Metrics, cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		fetcher:  fetcher,
		store:    store,
		metrics:  metrics,
		interval: interval,
		state:    domain.JobStateIdle,
	}
}

// OnTerminal registers the terminal-state callback. Must be called
// before Track or Resume.
func (p *Poller) OnTerminal(fn func(state domain.JobState, job *domain.GenerationJob)) {
	p.onTerminal = fn
}

// Snapshot returns the current state and last observed job record.
func (p *Poller) Snapshot() JobSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return JobSnapshot{State: p.state, Job: p.job}
}

// Active reports whether a job is being tracked and has not reached a
// terminal state. The creation form disables re-submission while true.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == domain.JobStateSubmitted || p.state == domain.JobStatePolling
}

// Track starts polling a freshly accepted job. The id is persisted
// before the first status request so a crash between the two cannot
// orphan the job.
func (p *Poller) Track(job *domain.GenerationJob) error {
	p.mu.Lock()
	if p.state == domain.JobStateSubmitted || p.state == domain.JobStatePolling {
		p.mu.Unlock()
		return ErrJobActive
	}

	if err := p.store.SetJobID(job.ID); err != nil {
		p.mu.Unlock()
		return err
	}

	p.state = domain.JobStateSubmitted
	p.job = job
	p.startLocked(job.ID)
	p.mu.Unlock()

	logger.Info("Tracking generation job: job_id=%s", job.ID)
	return nil
}

// Resume restores a persisted job after a process restart. When a job
// id is found, the poller enters polling immediately rather than idle.
// Returns the resumed job id, or "" when the store is empty.
func (p *Poller) Resume() (string, error) {
	id, err := p.store.JobID()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", nil
	}

	p.mu.Lock()
	p.state = domain.JobStatePolling
	p.job = &domain.GenerationJob{ID: id}
	p.startLocked(id)
	p.mu.Unlock()

	logger.Info("Resumed generation job from store: job_id=%s", id)
	return id, nil
}

// Stop cancels the polling loop without touching the persisted id, so
// the job survives teardown and Resume picks it up later.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// startLocked launches the polling loop. Caller holds p.mu.
func (p *Poller) startLocked(id string) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logger.SetJobID(ctx, id)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, id, p.done)
}

// loop issues a status request per interval tick until a terminal state
// is observed or the context is cancelled. The first request fires
// immediately so a resumed page shows progress without waiting a full
// interval.
func (p *Poller) loop(ctx context.Context, id string, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if terminal := p.poll(ctx, id); terminal {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll performs one status request and applies the resulting
// transition. Returns true when a terminal state was reached and the
// interval must be suspended.
func (p *Poller) poll(ctx context.Context, id string) bool {
	if p.metrics != nil {
		p.metrics.IncStatusPolls()
	}

	job, err := p.fetcher.JobStatus(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		switch backend.KindOf(err) {
		case backend.ErrKindTransport, backend.ErrKindDecode:
			// Transient; the next tick simply tries again.
			logger.CtxWarn(ctx, "Status poll failed, will retry: %v", err)
			return false
		default:
			// 404/4xx: the id is gone or rejected. Terminal, and
			// distinct from a server-side generation failure.
			logger.CtxError(ctx, "Status poll rejected, marking job lost: %v", err)
			p.finish(domain.JobStateLost, &domain.GenerationJob{ID: id, Error: err.Error()})
			return true
		}
	}

	p.mu.Lock()
	p.job = job
	p.mu.Unlock()

	switch job.Status {
	case domain.MemeStatusCompleted:
		logger.CtxInfo(ctx, "Generation job completed")
		p.finish(domain.JobStateCompleted, job)
		return true
	case domain.MemeStatusFailed:
		logger.CtxWarn(ctx, "Generation job failed server-side")
		p.finish(domain.JobStateFailed, job)
		return true
	default:
		p.mu.Lock()
		p.state = domain.JobStatePolling
		p.mu.Unlock()
		return false
	}
}

// finish applies a terminal transition: state update, persisted id
// cleared, metrics, callback. Exactly once per job.
func (p *Poller) finish(state domain.JobState, job *domain.GenerationJob) {
	if err := p.store.ClearJobID(); err != nil {
		logger.Error("Failed to clear persisted job id: %v", err)
	}

	p.mu.Lock()
	p.state = state
	p.job = job
	p.cancel = nil
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.IncJobsFinished(string(state))
	}
	if p.onTerminal != nil {
		p.onTerminal(state, job)
	}
}
