// Package linkedin centralizes the site URLs and CSS selectors the engine
// drives. Core packages never embed page structure directly; when LinkedIn
// ships a redesign, this file is the only place that needs updating.
package linkedin

import (
	"net/url"
	"strconv"
)

// Page URLs and URL fragments.
const (
	LoginURL      = "https://www.linkedin.com/login"
	JobsSearchURL = "https://www.linkedin.com/jobs/search/"

	// FeedURLFragment appears in the post-login URL once a session is live.
	FeedURLFragment = "/feed"
)

// ChallengeURLFragments mark redirects to verification or two-factor pages.
var ChallengeURLFragments = []string{"/checkpoint", "/challenge", "/uas/"}

// PageSize is the number of results LinkedIn serves per search page; the
// pagination cursor advances in these increments.
const PageSize = 25

// Login page selectors.
const (
	SelLoginEmail    = "#username"
	SelLoginPassword = "#password"
	SelLoginSubmit   = "button[type=submit]"
	SelLoginError    = "#error-for-username, #error-for-password, .form__error"
)

// Search results selectors.
const (
	SelResultsList  = ".jobs-search-results-list, ul.jobs-search__results-list"
	SelNoResults    = ".jobs-search-no-results-banner"
	SelJobCard      = "div.job-card-container"
	SelJobCardTitle = "a.job-card-list__title"
)

// Listing page and Easy Apply dialog selectors.
const (
	SelEasyApplyButton    = "button.jobs-apply-button"
	SelAppliedMarker      = ".jobs-s-apply__applied-date"
	SelJobDetails         = ".jobs-details__main-content"
	SelDialog             = "div.jobs-easy-apply-modal"
	SelSubmitApplication  = "button[aria-label='Submit application']"
	SelNextStep           = "button[aria-label='Continue to next step']"
	SelReviewApplication  = "button[aria-label='Review your application']"
	SelSuccessBanner      = ".jobs-easy-apply-success, h3[class*='success']"
	SelRequiredFieldError = ".artdeco-inline-feedback--error"
	SelChallenge          = "#captcha-internal, .challenge-dialog"
	SelDismissDialog      = "button[aria-label='Dismiss']"
	SelDiscardApplication = "button[data-control-name='discard_application_confirm_btn']"
)

// EasyApplyBadge is the card text that marks a listing as one-click applicable.
const EasyApplyBadge = "Easy Apply"

// SearchURL builds a jobs search URL with the Easy Apply filter applied.
// start is the zero-based result offset used as the pagination cursor.
func SearchURL(keywords, location string, start int) string {
	q := url.Values{}
	if keywords != "" {
		q.Set("keywords", keywords)
	}
	if location != "" {
		q.Set("location", location)
	}
	// f_AL restricts results to Easy Apply listings.
	q.Set("f_AL", "true")
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	return JobsSearchURL + "?" + q.Encode()
}
