package hostexec

import "strings"

// ParseKeyValue splits output into key/value pairs on the first occurrence
// of separator per line. Empty keys and lines without the separator are
// skipped rather than reported.
func ParseKeyValue(output []byte, separator string) map[string]string {
	result := make(map[string]string)
	lines := strings.Split(string(output), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, separator) {
			continue
		}

		parts := strings.SplitN(line, separator, 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key != "" {
			result[key] = value
		}
	}

	return result
}

// ParseLines returns the non-empty trimmed lines of output.
func ParseLines(output []byte) []string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	var result []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result = append(result, line)
	}

	return result
}

// ParseTable parses whitespace-separated columnar output where the first
// line holds the column names. Rows shorter than the header get empty
// strings for the missing columns.
func ParseTable(output []byte) []map[string]string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Fields(lines[0])
	if len(headers) == 0 {
		return nil
	}

	var result []map[string]string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		row := make(map[string]string)
		for i, header := range headers {
			if i < len(fields) {
				row[header] = fields[i]
			} else {
				row[header] = ""
			}
		}
		result = append(result, row)
	}

	return result
}
