// Package session models the AR session boundary: camera tracking state,
// interruptions, errors and detected anchors, delivered as events on a
// channel.
package session

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/placement"
)

// ResettingText is shown after an interruption ends and tracking restarts.
const ResettingText = "Resetting Session"

// TrackingKind is the camera tracking quality.
type TrackingKind int

const (
	TrackingNotAvailable TrackingKind = iota
	TrackingLimited
	TrackingNormal
)

// LimitedReason explains limited tracking.
type LimitedReason string

const (
	ReasonInitializing         LimitedReason = "initializing"
	ReasonExcessiveMotion      LimitedReason = "excessiveMotion"
	ReasonInsufficientFeatures LimitedReason = "insufficientFeatures"
	ReasonRelocalizing         LimitedReason = "relocalizing"
)

// TrackingState is the camera tracking state. Reason is only set when Kind
// is TrackingLimited.
type TrackingState struct {
	Kind   TrackingKind
	Reason LimitedReason
}

// Normal returns the normal tracking state.
func Normal() TrackingState { return TrackingState{Kind: TrackingNormal} }

// NotAvailable returns the unavailable tracking state.
func NotAvailable() TrackingState { return TrackingState{Kind: TrackingNotAvailable} }

// Limited returns a limited tracking state.
func Limited(reason LimitedReason) TrackingState {
	return TrackingState{Kind: TrackingLimited, Reason: reason}
}

// Text returns the status line shown to the user.
func (s TrackingState) Text() string {
	switch s.Kind {
	case TrackingNormal:
		return "Tracking Normal"
	case TrackingLimited:
		return fmt.Sprintf("Tracking Limited: %s", s.Reason)
	default:
		return "Tracking unavailable"
	}
}

// Event is something the session reports. The concrete types are
// TrackingChanged, AnchorAdded, Interrupted, InterruptionEnded and Failed.
type Event interface {
	event()
}

// TrackingChanged reports a new camera tracking state.
type TrackingChanged struct {
	State TrackingState
}

// AnchorAdded reports a newly detected anchor.
type AnchorAdded struct {
	Anchor placement.Anchor
}

// Interrupted reports that the session stopped receiving sensor data.
type Interrupted struct{}

// InterruptionEnded reports that the session is running again.
type InterruptionEnded struct{}

// Failed reports a session error.
type Failed struct {
	Err error
}

func (TrackingChanged) event()   {}
func (AnchorAdded) event()       {}
func (Interrupted) event()       {}
func (InterruptionEnded) event() {}
func (Failed) event()            {}

// StatusText returns the status line an event should display, if any.
func StatusText(e Event) (string, bool) {
	switch v := e.(type) {
	case TrackingChanged:
		return v.State.Text(), true
	case InterruptionEnded:
		return ResettingText, true
	default:
		return "", false
	}
}
