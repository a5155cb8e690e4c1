package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/credentials"
	"github.com/jonathan/easyapply-agent/internal/linkedin"
)

// Options tunes the login flow. Zero values use the defaults.
type Options struct {
	// Backoff before the single retry of a transient failure.
	Backoff time.Duration
	// WaitTimeout bounds how long to wait for the post-submit redirect.
	WaitTimeout time.Duration
	// PollInterval between location checks while waiting for the redirect.
	PollInterval time.Duration
}

func (o *Options) normalize() {
	if o.Backoff <= 0 {
		o.Backoff = 5 * time.Second
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = 15 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 500 * time.Millisecond
	}
}

// Authenticate logs the browser session into LinkedIn. Transient failures
// are retried exactly once after the backoff; InvalidCredentials and
// VerificationRequired are returned immediately. The secret is only ever
// typed into the password field, never logged.
func Authenticate(ctx context.Context, drv browser.Driver, creds credentials.Credentials, log zerolog.Logger, opts Options) error {
	opts.normalize()

	err := authenticate(ctx, drv, creds, log, opts)
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Kind != TransientError {
		return err
	}

	log.Warn().Err(err).Dur("backoff", opts.Backoff).Msg("auth_retry")
	if err := sleep(ctx, opts.Backoff); err != nil {
		return &AuthError{Kind: TransientError, Message: "canceled during backoff", Cause: err}
	}
	return authenticate(ctx, drv, creds, log, opts)
}

func authenticate(ctx context.Context, drv browser.Driver, creds credentials.Credentials, log zerolog.Logger, opts Options) error {
	if err := drv.Navigate(ctx, linkedin.LoginURL); err != nil {
		return &AuthError{Kind: TransientError, Message: "login page unavailable", Cause: err}
	}

	if err := drv.Fill(ctx, linkedin.SelLoginEmail, creds.Email()); err != nil {
		return &AuthError{Kind: TransientError, Message: "email field unavailable", Cause: err}
	}
	if err := drv.Fill(ctx, linkedin.SelLoginPassword, creds.Secret()); err != nil {
		return &AuthError{Kind: TransientError, Message: "password field unavailable", Cause: err}
	}
	if err := drv.Click(ctx, linkedin.SelLoginSubmit); err != nil {
		return &AuthError{Kind: TransientError, Message: "login submit failed", Cause: err}
	}

	deadline := time.Now().Add(opts.WaitTimeout)
	for {
		loc, err := drv.Location(ctx)
		if err != nil {
			return &AuthError{Kind: TransientError, Message: "could not read location", Cause: err}
		}

		switch {
		case strings.Contains(loc, linkedin.FeedURLFragment):
			log.Info().Msg("authenticated")
			return nil
		case isChallengeURL(loc):
			return &AuthError{Kind: VerificationRequired, Message: "site requested manual verification at " + loc}
		}

		// Still on the login page: a visible form error means rejection.
		if strings.Contains(loc, "/login") {
			bad, err := drv.Exists(ctx, linkedin.SelLoginError)
			if err != nil {
				return &AuthError{Kind: TransientError, Message: "could not inspect login form", Cause: err}
			}
			if bad {
				return &AuthError{Kind: InvalidCredentials, Message: "site rejected the credentials"}
			}
		}

		if time.Now().After(deadline) {
			return &AuthError{Kind: TransientError, Message: "login did not complete before timeout"}
		}
		if err := sleep(ctx, opts.PollInterval); err != nil {
			return &AuthError{Kind: TransientError, Message: "canceled while waiting for login", Cause: err}
		}
	}
}

func isChallengeURL(loc string) bool {
	for _, fragment := range linkedin.ChallengeURLFragments {
		if strings.Contains(loc, fragment) {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
