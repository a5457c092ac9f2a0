package bdf

import (
	"strconv"
	"strings"
)

// The executive section boils down to the solution sequence number:
// SOL and CEND are recognized, every other statement rides along
// verbatim. Case control is opaque text between CEND and BEGIN BULK
// and round-trips untouched.

// parseSol reads a SOL statement. Named solution sequences return
// false so the caller carries the line verbatim instead.
func parseSol(line string) (int, bool) {
	f := strings.Fields(stripDollar(line))
	if len(f) < 2 || !strings.EqualFold(f[0], "SOL") {
		return 0, false
	}
	n, err := strconv.Atoi(f[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isCend(line string) bool {
	return strings.EqualFold(strings.TrimSpace(stripDollar(line)), "CEND")
}

func isBeginBulk(line string) bool {
	f := strings.Fields(strings.ToUpper(stripDollar(line)))
	return len(f) >= 2 && f[0] == "BEGIN" && f[1] == "BULK"
}

func isEnddata(line string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(line)), "ENDDATA")
}

func stripDollar(line string) string {
	if i := strings.IndexByte(line, '$'); i >= 0 {
		return line[:i]
	}
	return line
}
