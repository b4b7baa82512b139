package archive

import (
	"strings"

	"mvdan.cc/xurls/v2"
)

// Snapshot is one archived capture of a page.
type Snapshot struct {
	URL      string `json:"url"`
	Datetime string `json:"datetime,omitempty"`
}

var urlScan = xurls.Strict()

// parseTimemap reads an RFC 7089 link-format body and returns memento
// snapshots in response order. Bodies the splitter cannot handle fall
// back to a bare URL scan so partial data still yields links.
func parseTimemap(body string) []Snapshot {
	var snapshots []Snapshot

	for _, entry := range splitEntries(body) {
		target, params := parseEntry(entry)
		if target == "" {
			continue
		}
		// rel may be "memento", "first memento", "last memento" etc.
		if !strings.Contains(params["rel"], "memento") {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			URL:      target,
			Datetime: params["datetime"],
		})
	}

	if snapshots == nil && strings.TrimSpace(body) != "" {
		return salvageSnapshots(body)
	}
	return snapshots
}

// splitEntries breaks a link-format body into <target>; params entries.
// Entries normally sit one per line with a trailing comma; a line that
// packs several entries is split on the ",<" boundary, which cannot
// occur inside a quoted datetime.
func splitEntries(body string) []string {
	var entries []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, ",")
		if line == "" {
			continue
		}

		for i, part := range strings.Split(line, ",<") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if i > 0 {
				part = "<" + part
			}
			entries = append(entries, part)
		}
	}
	return entries
}

func parseEntry(entry string) (string, map[string]string) {
	if !strings.HasPrefix(entry, "<") {
		return "", nil
	}
	end := strings.Index(entry, ">")
	if end < 0 {
		return "", nil
	}

	target := entry[1:end]
	params := make(map[string]string)
	for _, field := range strings.Split(entry[end+1:], ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.Trim(strings.TrimSpace(kv[1]), `"`)
		params[key] = value
	}
	return target, params
}

// salvageSnapshots pulls whatever capture URLs survive in a body the
// link-format parser could not handle.
func salvageSnapshots(body string) []Snapshot {
	var snapshots []Snapshot
	seen := make(map[string]bool)
	for _, raw := range urlScan.FindAllString(body, -1) {
		if !strings.Contains(raw, "/web/") {
			continue
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		snapshots = append(snapshots, Snapshot{URL: raw})
	}
	return snapshots
}
