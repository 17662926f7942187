package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

const spinnerTick = 100 * time.Millisecond

// NewSpinner creates an indeterminate progress spinner for a blocking remote
// call.
func NewSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(fmt.Sprintf("[magenta][bold]%s[reset]", description)),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
}

// AwaitWithSpinner spins until results delivers a value and returns it. The
// channel must deliver exactly one value.
func AwaitWithSpinner[T any](w io.Writer, description string, results <-chan T) T {
	bar := NewSpinner(w, description)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for {
		select {
		case v := <-results:
			if err := bar.Finish(); err != nil {
				slog.Warn("Failed to finish spinner", "error", err)
			}
			return v
		case <-ticker.C:
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update spinner", "error", err)
			}
		}
	}
}
