package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator wraps the terminal spinner. A nil *Indicator (or one built for a
// non-terminal) is safe to use; every method becomes a no-op.
type Indicator struct {
	spinner *spinner.Spinner
	symbols Symbols
}

// NewIndicator builds a spinner for the detected terminal, or an inert one
// when stderr is not a terminal or enabled is false.
func NewIndicator(enabled bool) *Indicator {
	caps := DetectTerminalCapabilities()
	symbols := SelectSymbols(caps)
	if !enabled || !caps.IsTTY {
		return &Indicator{symbols: symbols}
	}

	s := spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	return &Indicator{spinner: s, symbols: symbols}
}

// Start begins animating with the given message.
func (i *Indicator) Start(message string) {
	if i == nil || i.spinner == nil {
		return
	}
	i.spinner.Suffix = " " + message
	i.spinner.Start()
}

// Stop clears the spinner line without a status marker.
func (i *Indicator) Stop() {
	if i == nil || i.spinner == nil {
		return
	}
	i.spinner.Stop()
}

// Succeed stops the spinner and leaves a checkmarked closing line.
func (i *Indicator) Succeed(message string) {
	if i == nil || i.spinner == nil {
		return
	}
	i.spinner.FinalMSG = i.symbols.Checkmark + " " + message + "\n"
	i.spinner.Stop()
}

// Fail stops the spinner and leaves a failure-marked closing line.
func (i *Indicator) Fail(message string) {
	if i == nil || i.spinner == nil {
		return
	}
	i.spinner.FinalMSG = i.symbols.Failure + " " + message + "\n"
	i.spinner.Stop()
}
