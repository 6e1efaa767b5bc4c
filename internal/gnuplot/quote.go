package gnuplot

import (
	"fmt"
	"regexp"
	"strings"
)

// Quote returns a single-quoted string for use as a filename in a gnuplot
// command. Backslashes and single quotes are escaped.
func Quote(path string) string {
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// placeholderPattern matches data placeholders of the form {{name}},
// {{pipe:name}} or {{file:name}} inside a command line.
var placeholderPattern = regexp.MustCompile(
	`\{\{(?:(file|pipe):)?([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// placeholder is one occurrence of a data placeholder in a command.
type placeholder struct {
	name    string
	viaFile bool
	start   int
	end     int
}

// findPlaceholders scans a command line for data placeholders and validates
// them against the provided data keys. Every placeholder must have data and
// names must not repeat.
func findPlaceholders(command string, data map[string][]byte) ([]placeholder, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(command, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]placeholder, 0, len(matches))
	for _, m := range matches {
		mode := ""
		if m[2] >= 0 {
			mode = command[m[2]:m[3]]
		}
		name := command[m[4]:m[5]]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate data placeholder {{%s}}", name)
		}
		seen[name] = struct{}{}
		if _, ok := data[name]; !ok {
			return nil, fmt.Errorf("no data provided for placeholder {{%s}}", name)
		}
		out = append(out, placeholder{
			name:    name,
			viaFile: mode == "file",
			start:   m[0],
			end:     m[1],
		})
	}
	return out, nil
}
