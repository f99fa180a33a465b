//go:build !windows
// +build !windows

package output

// enableANSI reports ANSI support. Unix terminals handle escape sequences
// natively, so a terminal on stdout is enough.
func enableANSI() bool {
	return true
}
