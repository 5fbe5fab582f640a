package htmldoc

import (
	"strconv"
	"strings"
)

type declaration struct {
	prop  string
	value string
}

// parseStyle splits an inline style attribute into declarations, keeping
// their order. Malformed entries are dropped.
func parseStyle(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{prop: prop, value: value})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// lookup returns the last value declared for prop.
func lookup(decls []declaration, prop string) (string, bool) {
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].prop == prop {
			return decls[i].value, true
		}
	}
	return "", false
}

// withPosition drops any position, left and top declarations and appends
// an absolute position at (x, y).
func withPosition(decls []declaration, x, y float64) []declaration {
	out := make([]declaration, 0, len(decls)+3)
	for _, d := range decls {
		switch d.prop {
		case "position", "left", "top":
			continue
		}
		out = append(out, d)
	}
	return append(out,
		declaration{"position", "absolute"},
		declaration{"left", px(x)},
		declaration{"top", px(y)},
	)
}

// parseLength parses "12px", "12" or "12.5px". Other units are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
