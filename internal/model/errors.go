package model

import "errors"

// ErrInvalidInput indicates the declared inputs failed validation (income <= 0,
// occupation outside the enumerated set). Surfaced to the caller; the request
// is aborted before simulation or scoring runs.
var ErrInvalidInput = errors.New("invalid applicant input")

// ErrExplanationUnavailable indicates the text-generation collaborator timed
// out, errored, or no credential is configured. Always recovered locally: the
// numeric result is still returned with a fallback rationale.
var ErrExplanationUnavailable = errors.New("explanation unavailable")
