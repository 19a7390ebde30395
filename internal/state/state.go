// Package state provides thread-safe session status shared between the
// session goroutine and the UI.
package state

import (
	"sync"
	"time"
)

// EventType represents the type of session event.
type EventType string

const (
	EventTracking    EventType = "TRACKING"
	EventAnchor      EventType = "ANCHOR"
	EventAttached    EventType = "ATTACHED"
	EventInterrupted EventType = "INTERRUPTED"
	EventResumed     EventType = "RESUMED"
	EventError       EventType = "ERROR"
	EventToggle      EventType = "TOGGLE"
)

// Event is one entry in the session log.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Manager holds session status with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current status
	tracking    string
	lastError   error
	interrupted bool
	attached    bool
	updated     time.Time

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50, // Last 50 events
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		now:       time.Now,
	}
}

// SetTracking replaces the tracking status text.
func (m *Manager) SetTracking(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if text == m.tracking {
		return
	}
	m.tracking = text
	m.updated = m.now()
	m.addEvent(Event{Type: EventTracking, Timestamp: m.updated, Message: text})
}

// SetError records a session error. A nil error clears the last error.
func (m *Manager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = err
	m.updated = m.now()
	if err != nil {
		m.addEvent(Event{Type: EventError, Timestamp: m.updated, Message: err.Error()})
	}
}

// SetInterrupted marks the session as interrupted or resumed.
func (m *Manager) SetInterrupted(interrupted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if interrupted == m.interrupted {
		return
	}
	m.interrupted = interrupted
	m.updated = m.now()

	typ := EventResumed
	if interrupted {
		typ = EventInterrupted
	}
	m.addEvent(Event{Type: typ, Timestamp: m.updated})
}

// SetAttached records that the scene has been placed. It only ever latches on.
func (m *Manager) SetAttached(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		return
	}
	m.attached = true
	m.updated = m.now()
	m.addEvent(Event{Type: EventAttached, Timestamp: m.updated, Message: message})
}

// Record appends an event to the log. A zero timestamp is set to now.
func (m *Manager) Record(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = m.now()
	}
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Tracking    string
	LastError   error
	Interrupted bool
	Attached    bool
	Updated     time.Time
	Events      []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Tracking:    m.tracking,
		LastError:   m.lastError,
		Interrupted: m.interrupted,
		Attached:    m.attached,
		Updated:     m.updated,
		Events:      m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Tracking returns the current tracking status text.
func (m *Manager) Tracking() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracking
}

// Attached returns true once the scene has been placed.
func (m *Manager) Attached() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attached
}
