// Package engine orchestrates a full application run: authenticate, open the
// filtered search, then walk listings through the submitter until the session
// cap, exhaustion, or a terminal condition ends the loop. The final report is
// always produced, even when the run ends early.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jonathan/easyapply-agent/internal/apply"
	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/credentials"
	"github.com/jonathan/easyapply-agent/internal/report"
	"github.com/jonathan/easyapply-agent/internal/search"
	"github.com/jonathan/easyapply-agent/internal/session"
	"github.com/jonathan/easyapply-agent/internal/types"
)

// challengeEscalationThreshold ends the run after this many consecutive
// Challenged outcomes. One challenge can be a flaky listing; a streak means
// the site is throttling the whole session and pressing on risks the account.
const challengeEscalationThreshold = 3

// ErrChallenged is the terminal error for a run ended by repeated
// verification challenges.
var ErrChallenged = errors.New("run ended by repeated verification challenges")

// state tracks run progress for logging.
type state int

const (
	stateIdle state = iota
	stateAuthenticating
	stateSearching
	stateApplying
	stateFinalizing
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAuthenticating:
		return "authenticating"
	case stateSearching:
		return "searching"
	case stateApplying:
		return "applying"
	case stateFinalizing:
		return "finalizing"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// RunConfig is the validated input for one run.
type RunConfig struct {
	Credentials credentials.Credentials `validate:"-"`

	Keywords        string        `validate:"-"`
	Location        string        `validate:"-"`
	MaxApplications int           `validate:"required,gt=0"`
	MinDelay        time.Duration `validate:"gte=0"`

	// ReportPath is where the report artifact is written; empty disables
	// persistence.
	ReportPath string `validate:"-"`

	// AuthBackoff overrides the transient-failure retry backoff. Zero uses
	// the default.
	AuthBackoff time.Duration `validate:"-"`
}

var validate = validator.New()

// Validate checks the config before a run starts.
func (c RunConfig) Validate() error {
	if c.Credentials.IsZero() {
		return errors.New("credentials are required")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid run config: %w", err)
	}
	return nil
}

// Engine runs application sessions over a browser driver.
type Engine struct {
	drv browser.Driver
	log zerolog.Logger

	cur state
}

// New builds an engine on the given driver.
func New(drv browser.Driver, log zerolog.Logger) *Engine {
	return &Engine{drv: drv, log: log, cur: stateIdle}
}

func (e *Engine) transition(next state) {
	e.log.Debug().Stringer("from", e.cur).Stringer("to", next).Msg("state changed")
	e.cur = next
}

// Run executes one full session. It always returns a finalized report; the
// error, when non-nil, names the terminal condition that ended the run early.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (report.RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return report.NewAggregator("").Report(), err
	}

	agg := report.NewAggregator(cfg.ReportPath)
	e.log.Info().
		Str("keywords", cfg.Keywords).
		Str("location", cfg.Location).
		Int("max_applications", cfg.MaxApplications).
		Dur("min_delay", cfg.MinDelay).
		Msg("run_started")

	e.transition(stateAuthenticating)
	err := session.Authenticate(ctx, e.drv, cfg.Credentials, e.log, session.Options{Backoff: cfg.AuthBackoff})
	if err != nil {
		return e.finish(agg, err)
	}

	e.transition(stateSearching)
	if err := search.Open(ctx, e.drv, cfg.Keywords, cfg.Location, e.log); err != nil {
		return e.finish(agg, err)
	}

	e.transition(stateApplying)
	terminal := e.applyLoop(ctx, cfg, agg)
	return e.finish(agg, terminal)
}

// applyLoop walks listings until the cap, exhaustion, cancellation, or a
// challenge streak ends it. Only cancellation and the challenge streak are
// terminal errors.
func (e *Engine) applyLoop(ctx context.Context, cfg RunConfig, agg *report.Aggregator) error {
	th := NewThrottle(cfg.MinDelay)
	it := search.NewListings(e.drv, cfg.Keywords, cfg.Location, e.log)

	consecutiveChallenges := 0
	for agg.Total() < cfg.MaxApplications && it.Next(ctx) {
		// Cancellation takes effect between listings; an in-flight
		// submission is never abandoned half-way.
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := th.Wait(ctx); err != nil {
			return err
		}

		listing := it.Listing()
		out := apply.Submit(ctx, e.drv, listing, e.log)
		if err := agg.Record(out); err != nil {
			// A page reshuffle can re-surface a processed listing; its
			// outcome is already counted.
			e.log.Warn().Err(err).Str("url", listing.URL).Msg("listing_skipped")
			continue
		}

		switch out.Status {
		case types.StatusApplied:
			e.log.Info().Str("url", listing.URL).Str("title", listing.Title).Msg("listing_applied")
		case types.StatusFailed:
			e.log.Warn().Str("url", listing.URL).Str("reason", string(out.Reason)).Msg("listing_failed")
		case types.StatusSkipped:
			e.log.Info().Str("url", listing.URL).Str("reason", string(out.Reason)).Msg("listing_skipped")
		}

		if out.Status == types.StatusFailed && out.Reason == types.ReasonChallenged {
			consecutiveChallenges++
			if consecutiveChallenges >= challengeEscalationThreshold {
				e.log.Error().Int("streak", consecutiveChallenges).Msg("run_challenged")
				return ErrChallenged
			}
		} else {
			consecutiveChallenges = 0
		}
	}
	return ctx.Err()
}

// finish finalizes the report and logs the run summary. A persistence
// failure becomes the terminal error only when the run had none of its own.
func (e *Engine) finish(agg *report.Aggregator, terminal error) (report.RunReport, error) {
	e.transition(stateFinalizing)
	rep, err := agg.Finalize()
	if err != nil {
		e.log.Error().Err(err).Msg("could not persist report")
		if terminal == nil {
			terminal = err
		}
	}

	e.transition(stateDone)
	e.log.Info().
		Int("applied", rep.TotalApplied).
		Int("failed", rep.TotalFailed).
		Int("skipped", rep.TotalSkipped).
		Err(terminal).
		Msg("run_finished")
	return rep, terminal
}
