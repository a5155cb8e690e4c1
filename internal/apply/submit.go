// Package apply drives the Easy Apply dialog for a single listing. The
// submission flow is a small state machine over the dialog steps; it reports
// every result as an Outcome and never returns a Go error, so one broken
// listing cannot end the run.
package apply

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/linkedin"
	"github.com/jonathan/easyapply-agent/internal/types"
)

// maxDialogSteps bounds the walk through multi-step dialogs. Applications
// with more steps than this need answers we cannot provide, so they fail as
// requiring additional information rather than looping.
const maxDialogSteps = 7

// Submit opens the listing and attempts an Easy Apply submission. Whatever
// happens, the dialog is dismissed before returning so the session is clean
// for the next listing.
func Submit(ctx context.Context, drv browser.Driver, listing types.JobListing, log zerolog.Logger) types.Outcome {
	if err := drv.Navigate(ctx, listing.URL); err != nil {
		log.Warn().Err(err).Str("url", listing.URL).Msg("could not open listing")
		return types.Failed(listing, types.ReasonUnexpectedError)
	}

	// Already-applied listings are a no-op, not a failure.
	if applied, _ := drv.Exists(ctx, linkedin.SelAppliedMarker); applied {
		return types.Skipped(listing, types.ReasonAlreadyApplied)
	}

	hasButton, err := drv.Exists(ctx, linkedin.SelEasyApplyButton)
	if err != nil {
		return types.Failed(listing, types.ReasonUnexpectedError)
	}
	if !hasButton {
		// Distinguish a removed listing from one that merely routes to an
		// external application.
		if details, _ := drv.Exists(ctx, linkedin.SelJobDetails); !details {
			return types.Skipped(listing, types.ReasonListingRemoved)
		}
		return types.Skipped(listing, types.ReasonNoApplyButton)
	}

	if err := drv.Click(ctx, linkedin.SelEasyApplyButton); err != nil {
		log.Warn().Err(err).Str("url", listing.URL).Msg("apply button click failed")
		return types.Failed(listing, types.ReasonUnexpectedError)
	}
	if err := drv.WaitVisible(ctx, linkedin.SelDialog); err != nil {
		log.Warn().Err(err).Str("url", listing.URL).Msg("apply dialog never appeared")
		return types.Failed(listing, types.ReasonUnexpectedError)
	}

	defer dismissDialog(ctx, drv)

	return walkDialog(ctx, drv, listing, log)
}

// walkDialog advances through the dialog steps until the application is
// submitted or no safe forward action remains.
func walkDialog(ctx context.Context, drv browser.Driver, listing types.JobListing, log zerolog.Logger) types.Outcome {
	for step := 0; step < maxDialogSteps; step++ {
		if challenged, _ := drv.Exists(ctx, linkedin.SelChallenge); challenged {
			return types.Failed(listing, types.ReasonChallenged)
		}

		if submit, _ := drv.Exists(ctx, linkedin.SelSubmitApplication); submit {
			if err := drv.Click(ctx, linkedin.SelSubmitApplication); err != nil {
				return types.Failed(listing, types.ReasonUnexpectedError)
			}
			if ok, _ := drv.Exists(ctx, linkedin.SelSuccessBanner); ok {
				return types.Applied(listing)
			}
			// The site refused the final submission. A validation message
			// pins it on the form content; anything else is opaque.
			if bad, _ := drv.Exists(ctx, linkedin.SelRequiredFieldError); bad {
				return types.Failed(listing, types.ReasonSubmissionRejected)
			}
			return types.Failed(listing, types.ReasonSubmissionRejected)
		}

		// Not on the final step. Unanswered required questions block the
		// forward buttons, so check for them before advancing.
		if bad, _ := drv.Exists(ctx, linkedin.SelRequiredFieldError); bad {
			return types.Failed(listing, types.ReasonAdditionalInfoRequired)
		}

		advanced, err := advance(ctx, drv)
		if err != nil {
			return types.Failed(listing, types.ReasonUnexpectedError)
		}
		if !advanced {
			log.Debug().Str("url", listing.URL).Int("step", step).Msg("dialog offered no forward action")
			return types.Failed(listing, types.ReasonAdditionalInfoRequired)
		}
	}

	return types.Failed(listing, types.ReasonAdditionalInfoRequired)
}

// advance clicks the next-step or review control if one is present.
func advance(ctx context.Context, drv browser.Driver) (bool, error) {
	for _, sel := range []string{linkedin.SelNextStep, linkedin.SelReviewApplication} {
		ok, _ := drv.Exists(ctx, sel)
		if !ok {
			continue
		}
		if err := drv.Click(ctx, sel); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// dismissDialog closes the Easy Apply dialog if it is still open, confirming
// the discard prompt when the site raises one. Errors are deliberately
// swallowed; the next listing starts with a fresh navigation either way.
func dismissDialog(ctx context.Context, drv browser.Driver) {
	open, _ := drv.Exists(ctx, linkedin.SelDialog)
	if !open {
		return
	}
	_ = drv.Click(ctx, linkedin.SelDismissDialog)
	if confirm, _ := drv.Exists(ctx, linkedin.SelDiscardApplication); confirm {
		_ = drv.Click(ctx, linkedin.SelDiscardApplication)
	}
}
