// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Simulated AR session, one-shot surface placement, session event log
// 0.2.0 - Orbit and size scale toggles with animated transactions, trail toggle
// 0.1.0 - Initial release: scene graph, orrery view, headless summary
