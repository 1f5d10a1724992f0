//go:build !unix

package main

import "os"

// terminalWidth reports no limit where the window size cannot be queried.
func terminalWidth(*os.File) int {
	return 0
}
