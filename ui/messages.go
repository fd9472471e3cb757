package ui

// copyFlashExpiredMsg clears the transient "Copied!" indicator.
type copyFlashExpiredMsg struct{}

// recordRenderedMsg carries the ANSI-rendered content of one history
// record, produced off the update loop.
type recordRenderedMsg struct {
	ID       string
	Rendered string
}
