/*
Package framelight is a playback engine for interactive design prototypes.

It executes the interaction semantics of a design document: frames linked by
triggers (click, hover, key, timed delays), an explicit navigation history
with back support, an overlay stack, prototype variables with conditional
logic, and configurable transitions. The engine manages the state; your
application ("Host") renders frames and feeds input.

# Concept

Framelight treats a prototype as data: a set of frames, each carrying a list
of interaction rules. A player holds one walk-through of that data as an
immutable state snapshot, copied on every mutation. The Hexagonal layout
keeps the core independent of its surfaces, so the same player backs a CLI,
an HTTP API, or an MCP agent tool.

# Key Features

  - Deterministic dispatch: interactions fire in registration order, and a
    trigger batch is resolved against the state it arrived on.
  - Permissive degradation: malformed rules are skipped, never fatal, the
    way a design canvas keeps playing around authoring mistakes.
  - Durable sessions: snapshots persist through a pluggable store (memory
    or Redis) and resume across process restarts.
  - Timed triggers: after-delay interactions arm real timers that are
    neutralized by navigation, pause, or close.

# Usage

Load a prototype document and start a player:

	package main

	import (
		"fmt"
		"log"

		"github.com/framelight/framelight"
		"github.com/framelight/framelight/pkg/domain"
	)

	func main() {
		eng, err := framelight.New("prototype.yaml")
		if err != nil {
			log.Fatal(err)
		}

		player, err := eng.NewPlayer()
		if err != nil {
			log.Fatal(err)
		}
		defer player.Close()

		// Fire a click on the current frame.
		player.HandleTrigger(player.CurrentFrameID(), domain.TriggerClick)
		fmt.Println("now on", player.CurrentFrameID())
	}

Prototypes can also be built in code with the fluent builder in pkg/dsl,
served over HTTP with pkg/adapters/httpapi, or exposed to AI agents with
pkg/adapters/mcp.
*/
package framelight
