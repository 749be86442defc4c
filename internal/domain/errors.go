package domain

import "errors"

var (
	ErrBlankLocation     = errors.New("location name is blank")
	ErrInvalidWeights    = errors.New("weights must be non-negative with a positive sum")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrLocationNotFound  = errors.New("location not found")
	ErrNoCandidates      = errors.New("no candidate towns within constraints")
	ErrUpstreamTimeout   = errors.New("upstream service timed out")
	ErrUpstream          = errors.New("upstream service failed")
	ErrIllegalTransition = errors.New("illegal state transition")
)

// FailureKind classifies a terminal run failure
type FailureKind string

const (
	FailureInput           FailureKind = "input"
	FailureNotFound        FailureKind = "not_found"
	FailureNoCandidates    FailureKind = "no_candidates"
	FailureUpstreamTimeout FailureKind = "upstream_timeout"
	FailureUpstream        FailureKind = "upstream"
	FailureInternal        FailureKind = "internal"
)

// KindOf maps an error onto the failure taxonomy
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBlankLocation), errors.Is(err, ErrInvalidWeights), errors.Is(err, ErrInvalidQuery):
		return FailureInput
	case errors.Is(err, ErrLocationNotFound):
		return FailureNotFound
	case errors.Is(err, ErrNoCandidates):
		return FailureNoCandidates
	case errors.Is(err, ErrUpstreamTimeout):
		return FailureUpstreamTimeout
	case errors.Is(err, ErrUpstream):
		return FailureUpstream
	default:
		return FailureInternal
	}
}
