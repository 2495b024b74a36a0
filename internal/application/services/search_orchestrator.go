package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/toursearch/pkg/errors"
)

const (
	// DefaultMaxPollRetries is how many failed polls are retried before a
	// search settles in error
	DefaultMaxPollRetries = 2

	// DefaultPollDelay is used when the backend gives no usable hint
	DefaultPollDelay = time.Second
)

// SearchState is an observable snapshot of the orchestrator
type SearchState struct {
	Status          entities.SearchStatus
	Tours           []entities.Tour
	ResultCountryID string
	Error           string

	// Version increases with every committed transition
	Version uint64
}

// SearchOrchestratorOptions configures a SearchOrchestrator. Zero values
// select the defaults.
type SearchOrchestratorOptions struct {
	Scheduler        Scheduler
	Now              func() time.Time
	MaxPollRetries   int
	DefaultPollDelay time.Duration

	// RequestTimeout bounds each backend call, zero means no bound
	RequestTimeout time.Duration

	Metrics *observability.Metrics
	Logger  *zerolog.Logger
}

type cachedSearch struct {
	countryID string
	tours     []entities.Tour
}

type pollStep struct {
	token     string
	sessionID uint64
	delay     time.Duration
	retries   int
	countryID string
}

// SearchOrchestrator drives the submit, poll and settle lifecycle of price
// searches. Only the latest submission may change its state: every async
// continuation carries the session id (and token) it was started for and is
// dropped once those are no longer current.
type SearchOrchestrator struct {
	provider       providers.TourSearchProvider
	sched          Scheduler
	now            func() time.Time
	maxRetries     int
	defaultDelay   time.Duration
	requestTimeout time.Duration
	metrics        *observability.Metrics
	logger         zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu              sync.Mutex
	sessionID       uint64
	token           string
	timer           Timer
	activeCountryID string
	state           SearchState
	cached          *cachedSearch
	closed          bool
	listeners       []func(SearchState)
}

// NewSearchOrchestrator creates an idle orchestrator
func NewSearchOrchestrator(provider providers.TourSearchProvider, opts SearchOrchestratorOptions) *SearchOrchestrator {
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxPollRetries <= 0 {
		opts.MaxPollRetries = DefaultMaxPollRetries
	}
	if opts.DefaultPollDelay <= 0 {
		opts.DefaultPollDelay = DefaultPollDelay
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SearchOrchestrator{
		provider:       provider,
		sched:          opts.Scheduler,
		now:            opts.Now,
		maxRetries:     opts.MaxPollRetries,
		defaultDelay:   opts.DefaultPollDelay,
		requestTimeout: opts.RequestTimeout,
		metrics:        opts.Metrics,
		logger:         logger.With().Str("component", "search_orchestrator").Logger(),
		ctx:            ctx,
		cancel:         cancel,
		state:          SearchState{Status: entities.SearchStatusIdle},
	}
}

// OnChange registers a listener called after every committed transition.
// Listeners run outside the orchestrator's lock and may observe versions
// out of order.
func (o *SearchOrchestrator) OnChange(fn func(SearchState)) {
	o.mu.Lock()
	o.listeners = append(o.listeners, fn)
	o.mu.Unlock()
}

// Snapshot returns the current state
func (o *SearchOrchestrator) Snapshot() SearchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit starts a search for countryID. Re-submitting the country of the last
// completed search serves its tours without a backend call; re-submitting
// the country that is already loading does nothing.
func (o *SearchOrchestrator) Submit(countryID string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	if o.cached != nil && o.cached.countryID == countryID {
		o.invalidateLocked()
		o.activeCountryID = countryID
		o.state.Status = entities.SearchStatusSuccess
		o.state.Tours = o.cached.tours
		o.state.ResultCountryID = countryID
		o.state.Error = ""
		snapshot, listeners := o.commitLocked()
		o.mu.Unlock()

		observability.RecordSubmit(o.ctx, o.metrics, countryID, true)
		notify(listeners, snapshot)
		return
	}

	if o.state.Status == entities.SearchStatusLoading && o.activeCountryID == countryID {
		o.mu.Unlock()
		return
	}

	o.invalidateLocked()
	sessionID := o.sessionID
	o.activeCountryID = countryID
	o.state.Status = entities.SearchStatusLoading
	o.state.Error = ""
	snapshot, listeners := o.commitLocked()
	o.mu.Unlock()

	observability.RecordSubmit(o.ctx, o.metrics, countryID, false)
	notify(listeners, snapshot)
	o.sched.Go(func() { o.start(sessionID, countryID) })
}

// Close stops any pending poll and makes every in-flight continuation inert
func (o *SearchOrchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.invalidateLocked()
	o.listeners = nil
	o.mu.Unlock()

	o.cancel()
}

func (o *SearchOrchestrator) start(sessionID uint64, countryID string) {
	ctx, cancel := o.requestContext()
	ticket, err := o.provider.StartSearch(ctx, countryID)
	cancel()

	if err == nil && ticket == nil {
		err = apperrors.NewExternalError("empty start search response", nil)
	}

	o.mu.Lock()
	if o.sessionID != sessionID {
		o.mu.Unlock()
		return
	}
	if err != nil {
		o.settleErrorLocked(err, countryID)
		return
	}

	delay, ok := ticket.Hint.Resolve(o.now())
	if !ok {
		delay = o.defaultDelay
	}
	o.token = ticket.Token
	o.scheduleLocked(pollStep{
		token:     ticket.Token,
		sessionID: sessionID,
		delay:     delay,
		countryID: countryID,
	})
	o.mu.Unlock()
}

func (o *SearchOrchestrator) poll(step pollStep) {
	o.mu.Lock()
	if !o.currentLocked(step) {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	observability.RecordPoll(o.ctx, o.metrics, step.retries > 0)

	ctx, cancel := o.requestContext()
	result, err := o.provider.PollSearch(ctx, step.token)
	cancel()

	o.mu.Lock()
	if !o.currentLocked(step) {
		o.mu.Unlock()
		return
	}

	if err == nil && result != nil && result.State == providers.PollPending {
		next := step
		next.retries = 0
		// a hint resolving to zero keeps the previous delay
		delay, ok := result.Hint.Resolve(o.now())
		switch {
		case !ok:
			next.delay = o.defaultDelay
		case delay > 0:
			next.delay = delay
		}
		o.scheduleLocked(next)
		o.mu.Unlock()
		return
	}

	if err == nil && result != nil && result.State == providers.PollDone {
		o.cached = &cachedSearch{countryID: step.countryID, tours: result.Tours}
		o.token = ""
		o.timer = nil
		o.state.Status = entities.SearchStatusSuccess
		o.state.Tours = result.Tours
		o.state.ResultCountryID = step.countryID
		o.state.Error = ""
		snapshot, listeners := o.commitLocked()
		o.mu.Unlock()

		observability.RecordOutcome(o.ctx, o.metrics, string(entities.SearchStatusSuccess))
		notify(listeners, snapshot)
		return
	}

	if err == nil {
		err = apperrors.NewExternalError("unrecognised poll response", nil)
	}

	next := step
	next.retries++
	if next.retries > o.maxRetries {
		o.settleErrorLocked(err, step.countryID)
		return
	}

	o.logger.Warn().
		Err(err).
		Str("country_id", step.countryID).
		Int("retry", next.retries).
		Dur("delay", next.delay).
		Msg("poll failed, retrying")
	o.scheduleLocked(next)
	o.mu.Unlock()
}

// settleErrorLocked ends the current session in error and releases o.mu
func (o *SearchOrchestrator) settleErrorLocked(err error, countryID string) {
	o.token = ""
	o.timer = nil
	o.state.Status = entities.SearchStatusError
	o.state.Error = apperrors.UserMessage(err)
	snapshot, listeners := o.commitLocked()
	o.mu.Unlock()

	o.logger.Warn().Err(err).Str("country_id", countryID).Msg("search failed")
	observability.RecordOutcome(o.ctx, o.metrics, string(entities.SearchStatusError))
	notify(listeners, snapshot)
}

func (o *SearchOrchestrator) currentLocked(step pollStep) bool {
	return !o.closed && o.sessionID == step.sessionID && o.token == step.token
}

func (o *SearchOrchestrator) scheduleLocked(step pollStep) {
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = o.sched.AfterFunc(step.delay, func() { o.poll(step) })
}

// invalidateLocked supersedes the current session
func (o *SearchOrchestrator) invalidateLocked() {
	o.sessionID++
	o.token = ""
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *SearchOrchestrator) commitLocked() (SearchState, []func(SearchState)) {
	o.state.Version++
	listeners := make([]func(SearchState), len(o.listeners))
	copy(listeners, o.listeners)
	return o.state, listeners
}

func (o *SearchOrchestrator) requestContext() (context.Context, context.CancelFunc) {
	if o.requestTimeout > 0 {
		return context.WithTimeout(o.ctx, o.requestTimeout)
	}
	return context.WithCancel(o.ctx)
}

func notify(listeners []func(SearchState), state SearchState) {
	for _, fn := range listeners {
		fn(state)
	}
}
