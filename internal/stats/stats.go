// Package stats locates named statistic values in the captured output of a
// completed run. Programs emit one statistic per line as "KEY VALUE"; the
// exact convention is owned by the external tools, this package only
// collects the requested subset.
package stats

import "strings"

// Parse maps every KEY to its VALUE in the given output. The first
// whitespace-separated field of a line is the key and the second is the
// value, with surrounding whitespace stripped. Lines with fewer than two
// fields are ignored.
func Parse(output string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		values[fields[0]] = fields[1]
	}
	return values
}

// Extract returns the requested names present in parsed, preserving only
// those that were found, plus the list of requested names that were not.
// A missing name is not an error; the caller decides whether to warn.
func Extract(parsed map[string]string, requested []string) (map[string]string, []string) {
	found := make(map[string]string, len(requested))
	var missing []string
	for _, name := range requested {
		value, ok := parsed[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		found[name] = value
	}
	return found, missing
}
