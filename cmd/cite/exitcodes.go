package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (runtime failure, storage failure)
	ExitConfigError = 2 // Configuration error (missing API key, bad paths)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitNoHistory   = 4 // No snapshots recorded yet
	ExitFetchError  = 5 // Scholar provider error (not found, rate limit, network)
)
