// Package form models the lifecycle of a submitted form.
//
// A submission moves idle -> submitting -> succeeded | failed(reason).
// Submitting is represented by a held InFlight slot rather than a State value,
// so a rendered page is always idle, succeeded or failed.
package form

import (
	"errors"
	"sync"
)

// Status is the outcome of the last submission
type Status int

const (
	// StatusIdle is a form that has not been submitted yet
	StatusIdle Status = iota
	// StatusSucceeded is a form whose last submission went through
	StatusSucceeded
	// StatusFailed is a form whose last submission was rejected
	StatusFailed
)

// State is the view state of a form
type State struct {
	status  Status
	message string
}

// Idle is the state of a form that has not been submitted
func Idle() State {
	return State{status: StatusIdle}
}

// Succeeded carries a confirmation message
func Succeeded(message string) State {
	return State{status: StatusSucceeded, message: message}
}

// Failed carries the user-visible reason for the failure
func Failed(reason string) State {
	return State{status: StatusFailed, message: reason}
}

// Status reports the outcome of the last submission
func (s State) Status() Status { return s.status }

// IsFailed reports whether the last submission failed
func (s State) IsFailed() bool { return s.status == StatusFailed }

// IsSucceeded reports whether the last submission succeeded
func (s State) IsSucceeded() bool { return s.status == StatusSucceeded }

// Reason is the failure message, or "" unless failed
func (s State) Reason() string {
	if s.status != StatusFailed {
		return ""
	}
	return s.message
}

// Message is the success message, or "" unless succeeded
func (s State) Message() string {
	if s.status != StatusSucceeded {
		return ""
	}
	return s.message
}

// ErrInFlight is returned when the same form is already being submitted
var ErrInFlight = errors.New("submission already in progress")

// InFlight tracks submissions in progress, keyed by form and submitter.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewInFlight creates an empty tracker
func NewInFlight() *InFlight {
	return &InFlight{active: make(map[string]struct{})}
}

// Begin marks key as submitting and returns the function that releases it.
// It fails with ErrInFlight while another submission holds key.
func (f *InFlight) Begin(key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.active[key]; busy {
		return nil, ErrInFlight
	}
	f.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.active, key)
			f.mu.Unlock()
		})
	}, nil
}

// Submitting reports whether key is held
func (f *InFlight) Submitting(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.active[key]
	return busy
}

// Key builds the tracker key for a form submitted by a user
func Key(formName, userID string) string {
	return formName + ":" + userID
}
