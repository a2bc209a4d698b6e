//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package cli

import "io"

func probeWidth(io.Writer) int {
	return 0
}
