package apply

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/linkedin"
	"github.com/jonathan/easyapply-agent/internal/types"
)

var testListing = types.JobListing{
	URL:       "https://www.linkedin.com/jobs/view/42",
	Title:     "Backend Engineer",
	EasyApply: true,
}

// dialogFake scripts a listing page as a set of currently visible selectors.
// Clicks mutate the set the way the real dialog transitions do.
func dialogFake(visible map[string]bool, onClick func(visible map[string]bool, selector string)) *browser.Fake {
	drv := browser.NewFake()
	drv.OnExists = func(_ *browser.Fake, selector string) (bool, error) {
		return visible[selector], nil
	}
	drv.OnClick = func(_ *browser.Fake, selector string) error {
		if onClick != nil {
			onClick(visible, selector)
		}
		return nil
	}
	return drv
}

func TestSubmit_SingleStepApplication(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		switch sel {
		case linkedin.SelEasyApplyButton:
			v[linkedin.SelDialog] = true
			v[linkedin.SelSubmitApplication] = true
		case linkedin.SelSubmitApplication:
			v[linkedin.SelSubmitApplication] = false
			v[linkedin.SelDialog] = false
			v[linkedin.SelSuccessBanner] = true
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusApplied, out.Status)
	assert.Empty(t, out.Reason)
	assert.Equal(t, testListing, out.Listing)
}

func TestSubmit_MultiStepApplication(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	steps := 0
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		switch sel {
		case linkedin.SelEasyApplyButton:
			v[linkedin.SelDialog] = true
			v[linkedin.SelNextStep] = true
		case linkedin.SelNextStep:
			steps++
			if steps == 2 {
				v[linkedin.SelNextStep] = false
				v[linkedin.SelReviewApplication] = true
			}
		case linkedin.SelReviewApplication:
			v[linkedin.SelReviewApplication] = false
			v[linkedin.SelSubmitApplication] = true
		case linkedin.SelSubmitApplication:
			v[linkedin.SelDialog] = false
			v[linkedin.SelSuccessBanner] = true
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusApplied, out.Status)
	assert.Equal(t, 2, steps)
}

func TestSubmit_AlreadyApplied(t *testing.T) {
	drv := dialogFake(map[string]bool{
		linkedin.SelAppliedMarker: true,
		linkedin.SelJobDetails:    true,
	}, nil)

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.Equal(t, types.ReasonAlreadyApplied, out.Reason)
	assert.Empty(t, drv.Clicked)
}

func TestSubmit_ExternalApplication(t *testing.T) {
	drv := dialogFake(map[string]bool{linkedin.SelJobDetails: true}, nil)

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.Equal(t, types.ReasonNoApplyButton, out.Reason)
}

func TestSubmit_ListingRemoved(t *testing.T) {
	drv := dialogFake(map[string]bool{}, nil)

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.Equal(t, types.ReasonListingRemoved, out.Reason)
}

func TestSubmit_RequiredQuestionsBlockTheDialog(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		if sel == linkedin.SelEasyApplyButton {
			v[linkedin.SelDialog] = true
			v[linkedin.SelNextStep] = true
			v[linkedin.SelRequiredFieldError] = true
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.ReasonAdditionalInfoRequired, out.Reason)
	// The abandoned dialog must be dismissed before the next listing.
	assert.Contains(t, drv.Clicked, linkedin.SelDismissDialog)
}

func TestSubmit_DiscardPromptConfirmed(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		switch sel {
		case linkedin.SelEasyApplyButton:
			v[linkedin.SelDialog] = true
			v[linkedin.SelRequiredFieldError] = true
		case linkedin.SelDismissDialog:
			v[linkedin.SelDiscardApplication] = true
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.ReasonAdditionalInfoRequired, out.Reason)
	assert.Contains(t, drv.Clicked, linkedin.SelDiscardApplication)
}

func TestSubmit_ChallengeInsideDialog(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		if sel == linkedin.SelEasyApplyButton {
			v[linkedin.SelDialog] = true
			v[linkedin.SelChallenge] = true
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.ReasonChallenged, out.Reason)
}

func TestSubmit_SubmissionRejected(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		switch sel {
		case linkedin.SelEasyApplyButton:
			v[linkedin.SelDialog] = true
			v[linkedin.SelSubmitApplication] = true
		case linkedin.SelSubmitApplication:
			// No success banner appears.
			v[linkedin.SelSubmitApplication] = false
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.ReasonSubmissionRejected, out.Reason)
}

func TestSubmit_StepCapEndsEndlessDialogs(t *testing.T) {
	visible := map[string]bool{
		linkedin.SelEasyApplyButton: true,
		linkedin.SelJobDetails:      true,
	}
	advances := 0
	drv := dialogFake(visible, func(v map[string]bool, sel string) {
		switch sel {
		case linkedin.SelEasyApplyButton:
			v[linkedin.SelDialog] = true
			v[linkedin.SelNextStep] = true
		case linkedin.SelNextStep:
			advances++
		}
	})

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.ReasonAdditionalInfoRequired, out.Reason)
	assert.Equal(t, maxDialogSteps, advances)
}

func TestSubmit_NavigationFailure(t *testing.T) {
	drv := browser.NewFake()
	drv.OnNavigate = func(_ *browser.Fake, _ string) error {
		return errors.New("tab crashed")
	}

	out := Submit(context.Background(), drv, testListing, zerolog.Nop())

	require.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.ReasonUnexpectedError, out.Reason)
}
