package session

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/placement"
)

// Step is one scripted event, sent After the previous step.
type Step struct {
	After time.Duration
	Event Event
}

// DefaultScript is a typical session start: tracking comes up through a
// limited phase and a horizontal plane appears after surfaceDelay. A second
// plane follows to show that placement only happens once.
func DefaultScript(surfaceDelay time.Duration) []Step {
	return []Step{
		{After: 0, Event: TrackingChanged{State: NotAvailable()}},
		{After: 200 * time.Millisecond, Event: TrackingChanged{State: Limited(ReasonInitializing)}},
		{After: surfaceDelay / 2, Event: TrackingChanged{State: Normal()}},
		{After: surfaceDelay / 2, Event: AnchorAdded{
			Anchor: placement.NewPlane("plane-1", mgl32.Vec3{0, -0.5, -1}, mgl32.Vec2{1.2, 0.8}),
		}},
		{After: 2 * time.Second, Event: AnchorAdded{
			Anchor: placement.NewPlane("plane-2", mgl32.Vec3{1, -0.5, -2}, mgl32.Vec2{0.6, 0.6}),
		}},
	}
}

// Simulator plays a script of session events.
type Simulator struct {
	script []Step
	log    *logging.Logger
}

// NewSimulator creates a simulator for script.
func NewSimulator(script []Step, log *logging.Logger) *Simulator {
	if log == nil {
		log = logging.Discard()
	}
	return &Simulator{script: script, log: log}
}

// Run sends each scripted event on out, waiting between steps. It returns
// when the script is done or ctx is canceled, and never closes out.
func (s *Simulator) Run(ctx context.Context, out chan<- Event) error {
	for i, step := range s.script {
		if step.After > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(step.After):
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- step.Event:
			s.log.Debug("step %d: %T", i, step.Event)
		}
	}
	return nil
}
