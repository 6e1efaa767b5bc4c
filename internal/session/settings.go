package session

import "strings"

// FilterSettings reduces the output of gnuplot's `save '-'` to the lines
// worth replaying: comments, the recorded plot/splot command and the
// GNUTERM assignment are dropped, since the restored session draws its own
// plot and picks its own terminal.
func FilterSettings(script string) string {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "#"):
		case strings.HasPrefix(line, "plot "):
		case strings.HasPrefix(line, "splot "):
		case strings.HasPrefix(line, "GNUTERM ="):
		default:
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
