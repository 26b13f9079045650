package terminal

import (
	"fmt"
	"io"
	"time"

	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/pterm/pterm"
)

// Progress prints one line per finished hook until events is closed.
// Start events only print when verbose is set.
func Progress(w io.Writer, events <-chan hooks.Event, verbose bool) {
	muted := pterm.NewStyle(pterm.FgGray)
	for ev := range events {
		switch ev.Kind {
		case hooks.EventStarted:
			if verbose {
				_, _ = fmt.Fprintf(w, "%s %s\n", muted.Sprint("▸"), ev.Key)
			}
		case hooks.EventDone:
			if ev.Outcome == nil {
				continue
			}
			line := fmt.Sprintf("%s %s", StatusBadge(ev.Outcome.Status), ev.Key)
			if ev.Outcome.Reason != hooks.ReasonNone {
				line += " " + muted.Sprint(string(ev.Outcome.Reason))
			}
			if ev.Outcome.Elapsed > 0 {
				line += " " + muted.Sprint(ev.Outcome.Elapsed.Round(time.Millisecond).String())
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}
}
