package infra

import (
	"strings"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// Parsers for xprop output, used by the X11 active window query.
// Kept free of build tags so they are testable on any platform.

// parseActiveWindowID extracts the window id from
// "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3c00007".
// Returns "" when the property is missing or reports no window.
func parseActiveWindowID(out string) string {
	_, after, found := strings.Cut(out, "# ")
	if !found {
		return ""
	}
	id := strings.TrimSpace(after)
	// Multiple ids may be listed comma separated; the first is active.
	if comma := strings.IndexByte(id, ','); comma >= 0 {
		id = strings.TrimSpace(id[:comma])
	}
	if id == "" || id == "0x0" {
		return ""
	}
	return id
}

// parseWindowProperties extracts name, title and PID from the combined
// WM_CLASS, _NET_WM_NAME and _NET_WM_PID query on a window.
func parseWindowProperties(out string) domain.AppInfo {
	var info domain.AppInfo
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "WM_CLASS"):
			// WM_CLASS(STRING) = "instance", "Class" - the class names
			// the application.
			parts := splitQuoted(line)
			if len(parts) >= 2 {
				info.Name = parts[1]
			} else if len(parts) == 1 {
				info.Name = parts[0]
			}
		case strings.HasPrefix(line, "_NET_WM_NAME"):
			parts := splitQuoted(line)
			if len(parts) >= 1 {
				info.Title = parts[0]
			}
		case strings.HasPrefix(line, "_NET_WM_PID"):
			_, after, found := strings.Cut(line, "= ")
			if !found {
				continue
			}
			pid := 0
			for _, r := range strings.TrimSpace(after) {
				if r < '0' || r > '9' {
					pid = 0
					break
				}
				pid = pid*10 + int(r-'0')
			}
			info.PID = pid
		}
	}
	return info
}

// splitQuoted returns the double-quoted substrings of an xprop line.
func splitQuoted(line string) []string {
	var parts []string
	for {
		start := strings.IndexByte(line, '"')
		if start < 0 {
			return parts
		}
		line = line[start+1:]
		end := strings.IndexByte(line, '"')
		if end < 0 {
			return parts
		}
		parts = append(parts, line[:end])
		line = line[end+1:]
	}
}
