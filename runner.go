package framelight

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/framelight/framelight/internal/runtime"
	"github.com/framelight/framelight/pkg/domain"
)

// Runner drives a playback loop over provided IO. This keeps the loop
// testable and lets different frontends (CLI, TUI) reuse it.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms frame content before output, typically
// markdown to ANSI for terminal display.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. The caller must set Input and Output
// (usually os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the playback loop until EOF or an exit command. Besides
// trigger names, the loop accepts the commands back, reset, state, and
// exit/quit.
func (r *Runner) Run(engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	player, err := engine.NewPlayer()
	if err != nil {
		return err
	}
	defer func() { player.Close() }()

	if !r.Headless {
		fmt.Fprintln(writer, "--- Framelight player ---")
		fmt.Fprintln(writer, "Type a trigger to fire it, or: back, reset, state, exit")
	}

	lastRenderedID := ""
	for {
		frameID := player.CurrentFrameID()
		if frameID != lastRenderedID {
			r.renderFrame(writer, player, frameID)
			lastRenderedID = frameID
		}

		if !r.Headless {
			if triggers := availableTriggers(player, frameID); len(triggers) > 0 {
				fmt.Fprintf(writer, "[%s]\n", strings.Join(triggers, ", "))
			}
			fmt.Fprint(writer, "> ")
		}

		text, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)
		if input == "" {
			continue
		}

		switch input {
		case "exit", "quit":
			if !r.Headless {
				fmt.Fprintln(writer, "Bye!")
			}
			return nil
		case "back":
			player.GoBack(domain.TransitionConfig{})
		case "reset":
			// Rebuild from the source so a hot-reloaded document takes
			// effect, not just the original rules.
			player.Close()
			if player, err = engine.NewPlayer(); err != nil {
				return err
			}
			lastRenderedID = ""
		case "state":
			r.printState(writer, player)
		default:
			player.HandleTrigger(player.CurrentFrameID(), domain.Trigger(input))
		}
	}
	return nil
}

// renderFrame prints the frame header, its content, and any open overlays.
func (r *Runner) renderFrame(writer io.Writer, player *runtime.Player, frameID string) {
	frame, ok := player.Frame(frameID)
	if !ok {
		fmt.Fprintf(writer, "== %s ==\n", frameID)
		return
	}

	title := frame.Name
	if title == "" {
		title = frame.ID
	}
	fmt.Fprintf(writer, "== %s ==\n", title)

	if frame.Content != "" {
		output := frame.Content
		if r.Renderer != nil {
			if rendered, err := r.Renderer(frame.Content); err == nil {
				output = rendered
			}
		}
		fmt.Fprintln(writer, strings.TrimSpace(output))
	}

	for _, ov := range player.Overlays() {
		fmt.Fprintf(writer, "  (overlay: %s)\n", ov.FrameID)
	}
}

func (r *Runner) printState(writer io.Writer, player *runtime.Player) {
	snap := player.Snapshot()
	fmt.Fprintf(writer, "frame: %s\n", snap.CurrentFrameID)
	fmt.Fprintf(writer, "history: %d entries\n", len(snap.History))
	for _, ov := range snap.Overlays {
		fmt.Fprintf(writer, "overlay: %s\n", ov.FrameID)
	}
	keys := make([]string, 0, len(snap.Variables))
	for k := range snap.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(writer, "var %s = %v\n", k, snap.Variables[k])
	}
}

// availableTriggers lists the distinct triggers wired on a frame, minus
// after_delay which fires on its own.
func availableTriggers(player *runtime.Player, frameID string) []string {
	seen := make(map[string]bool)
	var triggers []string
	for _, it := range player.Interactions(frameID) {
		t := string(it.Trigger)
		if t == string(domain.TriggerAfterDelay) || seen[t] {
			continue
		}
		seen[t] = true
		triggers = append(triggers, t)
	}
	return triggers
}
