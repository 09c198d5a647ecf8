package constants

// RunStatus is the outcome of processing one inventory file in batch or watch mode.
type RunStatus string

const (
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusOK      RunStatus = "OK"
	RunStatusEmpty   RunStatus = "EMPTY" // file parsed, no furniture lines found
	RunStatusFailed  RunStatus = "FAILED"
)
