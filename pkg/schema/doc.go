// Package schema handles the storage representation of prototype
// definitions: interactions and transitions round-trip through flat
// key-value maps (the persisted form used by document tooling), and
// complete prototypes can be validated for common authoring mistakes.
//
// Validation is advisory. The player's permissive-degrade policy means a
// broken rule is a silent no-op at playback; Validate exists so authoring
// surfaces can warn before that happens.
package schema
