package cli

// Exit codes for the indi-fetch CLI.
const (
	// ExitSuccess indicates a completed run, including interrupted runs
	// that shut down cleanly.
	ExitSuccess = 0

	// ExitFailure indicates a configuration error, an unrecoverable
	// enumeration failure, or an exhausted retry ceiling.
	ExitFailure = 1
)
