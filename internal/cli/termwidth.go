package cli

import (
	"io"
	"strconv"
)

// terminalWidth picks the render width: $COLUMNS, then the terminal size
// of out, then 80.
func terminalWidth(out io.Writer, env map[string]string) int {
	if cols, err := strconv.Atoi(env["COLUMNS"]); err == nil && cols > 0 {
		return cols
	}

	if cols := probeWidth(out); cols > 0 {
		return cols
	}

	return defaultWidth
}
