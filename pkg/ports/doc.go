// Package ports defines the interfaces between the framelight core and its
// adapters: where prototype definitions come from (PrototypeSource), where
// session snapshots go (SnapshotStore), and what a playback session exposes
// to transports (Player).
package ports
