package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/credentials"
	"github.com/jonathan/easyapply-agent/internal/linkedin"
)

func testOptions() Options {
	return Options{
		Backoff:      10 * time.Millisecond,
		WaitTimeout:  200 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}
}

func testCreds(t *testing.T) credentials.Credentials {
	t.Helper()
	creds, err := credentials.New("user@example.com", "secret")
	require.NoError(t, err)
	return creds
}

func TestAuthenticate_Success(t *testing.T) {
	drv := browser.NewFake()
	drv.OnClick = func(f *browser.Fake, selector string) error {
		if selector == linkedin.SelLoginSubmit {
			f.URL = "https://www.linkedin.com/feed/"
		}
		return nil
	}

	err := Authenticate(context.Background(), drv, testCreds(t), zerolog.Nop(), testOptions())
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", drv.Filled[linkedin.SelLoginEmail])
	assert.Equal(t, "secret", drv.Filled[linkedin.SelLoginPassword])
	assert.Contains(t, drv.Navigated, linkedin.LoginURL)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	drv := browser.NewFake()
	drv.OnExists = func(_ *browser.Fake, selector string) (bool, error) {
		return selector == linkedin.SelLoginError, nil
	}

	err := Authenticate(context.Background(), drv, testCreds(t), zerolog.Nop(), testOptions())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, InvalidCredentials, authErr.Kind)

	// Terminal kinds are not retried: exactly one submit click.
	assert.Equal(t, []string{linkedin.SelLoginSubmit}, drv.Clicked)
}

func TestAuthenticate_VerificationRequired(t *testing.T) {
	drv := browser.NewFake()
	drv.OnClick = func(f *browser.Fake, selector string) error {
		if selector == linkedin.SelLoginSubmit {
			f.URL = "https://www.linkedin.com/checkpoint/challenge/abc"
		}
		return nil
	}

	err := Authenticate(context.Background(), drv, testCreds(t), zerolog.Nop(), testOptions())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, VerificationRequired, authErr.Kind)
	assert.Equal(t, []string{linkedin.SelLoginSubmit}, drv.Clicked)
}

func TestAuthenticate_TransientRetriedOnce(t *testing.T) {
	attempts := 0
	drv := browser.NewFake()
	drv.OnNavigate = func(_ *browser.Fake, url string) error {
		if url == linkedin.LoginURL {
			attempts++
			if attempts == 1 {
				return fmt.Errorf("connection reset")
			}
		}
		return nil
	}
	drv.OnClick = func(f *browser.Fake, selector string) error {
		if selector == linkedin.SelLoginSubmit {
			f.URL = "https://www.linkedin.com/feed/"
		}
		return nil
	}

	err := Authenticate(context.Background(), drv, testCreds(t), zerolog.Nop(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestAuthenticate_TransientEscalatesAfterRetry(t *testing.T) {
	attempts := 0
	drv := browser.NewFake()
	drv.OnNavigate = func(_ *browser.Fake, _ string) error {
		attempts++
		return errors.New("site down")
	}

	err := Authenticate(context.Background(), drv, testCreds(t), zerolog.Nop(), testOptions())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, TransientError, authErr.Kind)
	assert.Equal(t, 2, attempts)
}

func TestAuthenticate_TimesOutAsTransient(t *testing.T) {
	// Login never redirects anywhere and never shows a form error.
	drv := browser.NewFake()

	err := Authenticate(context.Background(), drv, testCreds(t), zerolog.Nop(), Options{
		Backoff:      time.Millisecond,
		WaitTimeout:  30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, TransientError, authErr.Kind)
}
