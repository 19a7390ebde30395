package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/placement"
)

func TestTrackingStateText(t *testing.T) {
	tests := []struct {
		state TrackingState
		want  string
	}{
		{Normal(), "Tracking Normal"},
		{NotAvailable(), "Tracking unavailable"},
		{Limited(ReasonExcessiveMotion), "Tracking Limited: excessiveMotion"},
		{Limited(ReasonInitializing), "Tracking Limited: initializing"},
	}

	for _, tt := range tests {
		if got := tt.state.Text(); got != tt.want {
			t.Errorf("Text() = %q, want %q", got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		want   string
		wantOK bool
	}{
		{"tracking", TrackingChanged{State: Normal()}, "Tracking Normal", true},
		{"resumed", InterruptionEnded{}, "Resetting Session", true},
		{"interrupted", Interrupted{}, "", false},
		{"failed", Failed{Err: errors.New("boom")}, "", false},
		{"anchor", AnchorAdded{Anchor: placement.FaceAnchor{ID: "f"}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StatusText(tt.event)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("StatusText = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSimulatorPlaysScriptInOrder(t *testing.T) {
	plane := placement.NewPlane("p", mgl32.Vec3{}, mgl32.Vec2{1, 1})
	script := []Step{
		{Event: TrackingChanged{State: Limited(ReasonInitializing)}},
		{After: time.Millisecond, Event: TrackingChanged{State: Normal()}},
		{After: time.Millisecond, Event: AnchorAdded{Anchor: plane}},
	}

	out := make(chan Event, len(script))
	if err := NewSimulator(script, nil).Run(context.Background(), out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("got %d events, want 3", len(out))
	}
	if e := (<-out).(TrackingChanged); e.State.Kind != TrackingLimited {
		t.Errorf("first event = %+v, want limited", e)
	}
	if e := (<-out).(TrackingChanged); e.State.Kind != TrackingNormal {
		t.Errorf("second event = %+v, want normal", e)
	}
	if e := (<-out).(AnchorAdded); e.Anchor.AnchorID() != "p" {
		t.Errorf("third event anchor = %q, want p", e.Anchor.AnchorID())
	}
}

func TestSimulatorStopsOnCancel(t *testing.T) {
	script := []Step{
		{Event: TrackingChanged{State: Normal()}},
		{After: time.Hour, Event: Interrupted{}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Event, 1)
	done := make(chan error, 1)
	go func() { done <- NewSimulator(script, nil).Run(ctx, out) }()

	<-out
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSimulatorBlockedSendCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Unbuffered and never read
	out := make(chan Event)
	err := NewSimulator([]Step{{Event: Interrupted{}}}, nil).Run(ctx, out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestDefaultScript(t *testing.T) {
	script := DefaultScript(time.Second)

	var planes int
	var total time.Duration
	for _, s := range script {
		total += s.After
		if a, ok := s.Event.(AnchorAdded); ok {
			if _, ok := a.Anchor.(placement.PlaneAnchor); ok {
				planes++
			}
		}
	}
	if planes != 2 {
		t.Errorf("planes = %d, want 2", planes)
	}

	// The first plane arrives once surfaceDelay has elapsed after initializing
	var untilFirst time.Duration
	for _, s := range script {
		untilFirst += s.After
		if _, ok := s.Event.(AnchorAdded); ok {
			break
		}
	}
	if untilFirst != 1200*time.Millisecond {
		t.Errorf("first plane after %v, want 1.2s", untilFirst)
	}
	if total <= untilFirst {
		t.Errorf("total %v should exceed first plane time %v", total, untilFirst)
	}
}
