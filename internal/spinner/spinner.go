package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Interval is the delay between frames.
const Interval = 80 * time.Millisecond

// Start displays an animated spinner with the given message on w while a
// slow step (chart rendering, export) runs. Call the returned function to
// stop the spinner and clear the line; it is safe to call more than once.
func Start(w io.Writer, message string) (stop func()) {
	done := make(chan struct{})
	cleared := make(chan struct{})
	var stopOnce sync.Once

	// frame + space + message, measured in terminal cells
	width := runewidth.StringWidth(message) + 2

	go func() {
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()
		defer close(cleared)

		fmt.Fprintf(w, "\r%s %s", frames[0], message) //nolint:errcheck
		for i := 1; ; i++ {
			select {
			case <-done:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width)) //nolint:errcheck
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], message) //nolint:errcheck
			}
		}
	}()
	return func() {
		stopOnce.Do(func() {
			close(done)
		})
		<-cleared
	}
}
