package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// State is a step of a single finder run
type State string

const (
	StateNameEntered            State = "name_entered"
	StateAwaitingDisambiguation State = "awaiting_disambiguation"
	StateLocationResolved       State = "location_resolved"
	StateScoringInProgress      State = "scoring_in_progress"
	StateResultsReady           State = "results_ready"
	StateFailed                 State = "failed"
)

// Failure describes why a run stopped
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

// Session is the immutable state of one run.
// Transition methods never modify the receiver; they return the next Session.
type Session struct {
	ID      string    `json:"id"`
	State   State     `json:"state"`
	Name    string    `json:"name"`
	Matches []Place   `json:"matches,omitempty"`
	Home    *Location `json:"home,omitempty"`
	Report  *Report   `json:"report,omitempty"`
	Failure *Failure  `json:"failure,omitempty"`
}

// NewSession starts a run for a user-entered place name
func NewSession(name string) Session {
	s := Session{
		ID:    uuid.NewString(),
		State: StateNameEntered,
		Name:  strings.TrimSpace(name),
	}
	if s.Name == "" {
		next, _ := s.Fail(ErrBlankLocation)
		return next
	}
	return s
}

// Terminal reports whether no further transitions are possible
func (s Session) Terminal() bool {
	return s.State == StateResultsReady || s.State == StateFailed
}

// Resolved applies the geocoding result
func (s Session) Resolved(places []Place) (Session, error) {
	if s.State != StateNameEntered {
		return s, s.illegal("resolve")
	}
	switch len(places) {
	case 0:
		return s.Fail(fmt.Errorf("%w: %q, check the spelling of the place name", ErrLocationNotFound, s.Name))
	case 1:
		next := s.clone()
		home := places[0].Location
		next.Home = &home
		next.Matches = nil
		next.State = StateLocationResolved
		return next, nil
	default:
		next := s.clone()
		next.Matches = append([]Place(nil), places...)
		next.State = StateAwaitingDisambiguation
		return next, nil
	}
}

// Choose picks one of the ambiguous matches
func (s Session) Choose(index int) (Session, error) {
	if s.State != StateAwaitingDisambiguation {
		return s, s.illegal("choose")
	}
	if index < 0 || index >= len(s.Matches) {
		return s, fmt.Errorf("%w: choice %d out of range [0,%d)", ErrInvalidQuery, index, len(s.Matches))
	}
	next := s.clone()
	home := s.Matches[index].Location
	next.Home = &home
	next.Matches = nil
	next.State = StateLocationResolved
	return next, nil
}

// BeginScoring marks the start of enumeration and forecast fetching
func (s Session) BeginScoring() (Session, error) {
	if s.State != StateLocationResolved {
		return s, s.illegal("begin scoring")
	}
	next := s.clone()
	next.State = StateScoringInProgress
	return next, nil
}

// Complete attaches the finished report
func (s Session) Complete(report Report) (Session, error) {
	if s.State != StateScoringInProgress {
		return s, s.illegal("complete")
	}
	next := s.clone()
	next.Report = &report
	next.State = StateResultsReady
	return next, nil
}

// Fail moves any non-terminal session into the failed state
func (s Session) Fail(err error) (Session, error) {
	if s.Terminal() {
		return s, s.illegal("fail")
	}
	next := s.clone()
	next.State = StateFailed
	next.Failure = &Failure{Kind: KindOf(err), Message: err.Error(), Err: err}
	return next, nil
}

// Err returns the failure cause, if any
func (s Session) Err() error {
	if s.Failure == nil {
		return nil
	}
	return s.Failure.Err
}

func (s Session) clone() Session {
	next := s
	if s.Matches != nil {
		next.Matches = append([]Place(nil), s.Matches...)
	}
	return next
}

func (s Session) illegal(op string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrIllegalTransition, op, s.State)
}
