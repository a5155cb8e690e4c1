package types

// Status is the terminal state a listing reached.
type Status string

const (
	StatusApplied Status = "Applied"
	StatusFailed  Status = "Failed"
	StatusSkipped Status = "Skipped"
)

// Reason explains a Failed or Skipped outcome. Applied outcomes carry no
// reason.
type Reason string

// Failed reasons. These are recovered at the submitter boundary and never
// abort the run.
const (
	ReasonAdditionalInfoRequired Reason = "AdditionalInfoRequired"
	ReasonSubmissionRejected     Reason = "SubmissionRejected"
	ReasonChallenged             Reason = "Challenged"
	ReasonUnexpectedError        Reason = "UnexpectedError"
)

// Skipped reasons: the application dialog could not be opened at all.
const (
	ReasonAlreadyApplied Reason = "AlreadyApplied"
	ReasonNoApplyButton  Reason = "NoApplyButton"
	ReasonListingRemoved Reason = "ListingRemoved"
)

// Outcome is the single terminal result produced for one processed listing.
// Immutable once created.
type Outcome struct {
	Listing JobListing `json:"listing"`
	Status  Status     `json:"status"`
	Reason  Reason     `json:"reason,omitempty"`
}

// Applied builds a successful outcome.
func Applied(l JobListing) Outcome {
	return Outcome{Listing: l, Status: StatusApplied}
}

// Failed builds a failed outcome with the given reason.
func Failed(l JobListing, reason Reason) Outcome {
	return Outcome{Listing: l, Status: StatusFailed, Reason: reason}
}

// Skipped builds a skipped outcome with the given reason.
func Skipped(l JobListing, reason Reason) Outcome {
	return Outcome{Listing: l, Status: StatusSkipped, Reason: reason}
}
