package search

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/linkedin"
)

// Open issues the job search with the Easy Apply filter applied and verifies
// the site answered with a results view. Keywords and location may be empty.
// After Open succeeds, enumeration reflects only filtered results.
func Open(ctx context.Context, drv browser.Driver, keywords, location string, log zerolog.Logger) error {
	target := linkedin.SearchURL(keywords, location, 0)
	if err := drv.Navigate(ctx, target); err != nil {
		return &SearchUnavailableError{Message: "could not load search results", Cause: err}
	}

	ok, err := drv.Exists(ctx, linkedin.SelResultsList)
	if err != nil {
		return &SearchUnavailableError{Message: "could not inspect results view", Cause: err}
	}
	if !ok {
		// An explicit empty-results banner is still a results view; the
		// enumerator will simply yield nothing.
		empty, err := drv.Exists(ctx, linkedin.SelNoResults)
		if err != nil || !empty {
			return &SearchUnavailableError{Message: "site did not return a results view", Cause: err}
		}
	}

	log.Info().Str("keywords", keywords).Str("location", location).Msg("search_opened")
	return nil
}
