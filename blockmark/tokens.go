package blockmark

import "strings"

// Reserved tokens. Each is a token only on its own line at column 0; see the
// package documentation for the grammar.
const (
	fenceContent   = "```block:content"
	fenceContainer = "```block:container"
	fenceEnd       = "```block:end"
	fenceClose     = "```"

	regionPrefix = "---region:"
	regionSuffix = "---"
)

// lineKind classifies one raw input line.
type lineKind int

const (
	lineText lineKind = iota
	lineContent
	lineContainer
	lineEnd
	lineClose
	lineRegion
)

func classify(line string) lineKind {
	trimmed := strings.TrimRight(line, " \t")
	switch trimmed {
	case fenceContent:
		return lineContent
	case fenceContainer:
		return lineContainer
	case fenceEnd:
		return lineEnd
	case fenceClose:
		return lineClose
	}
	if regionName(trimmed) != "" {
		return lineRegion
	}
	return lineText
}

// regionName extracts the name from a region marker line, or "" when the line
// is not a marker. Names must be non-empty and free of blanks.
func regionName(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	if !strings.HasPrefix(trimmed, regionPrefix) || !strings.HasSuffix(trimmed, regionSuffix) {
		return ""
	}
	if len(trimmed) < len(regionPrefix)+len(regionSuffix)+1 {
		return ""
	}
	name := trimmed[len(regionPrefix) : len(trimmed)-len(regionSuffix)]
	if strings.ContainsAny(name, " \t") {
		return ""
	}
	return name
}

// splitLines breaks input into lines, tolerating CRLF endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
