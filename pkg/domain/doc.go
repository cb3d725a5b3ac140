// Package domain contains the value types shared across the framelight
// engine: frames, interactions, transitions, overlays, variables, and the
// playback state snapshot.
//
// Types here are plain data. The behavior that mutates them lives in the
// runtime player; adapters only carry these values across boundaries.
package domain
