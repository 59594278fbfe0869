package tabular

import (
	"net/url"
	"strings"
)

const sheetsHost = "docs.google.com/spreadsheets"

// IsSheetsURL reports whether a URL points at a Google Sheets document.
func IsSheetsURL(raw string) bool {
	return strings.Contains(raw, sheetsHost)
}

// RewriteSheetsURL rewrites a Google Sheets share link to its CSV export
// form, preserving a gid sheet/tab parameter when present. URLs already in
// export form and non-Sheets URLs are returned unchanged.
func RewriteSheetsURL(raw string) string {
	if !IsSheetsURL(raw) || strings.Contains(raw, "export?format=csv") {
		return raw
	}

	gid := ""
	if u, err := url.Parse(raw); err == nil {
		gid = u.Query().Get("gid")
		if gid == "" && strings.HasPrefix(u.Fragment, "gid=") {
			gid = strings.TrimPrefix(u.Fragment, "gid=")
		}
	}

	base := raw
	if i := strings.Index(base, "/edit"); i >= 0 {
		base = base[:i]
	} else {
		// Strip any query/fragment before appending the export suffix.
		if i := strings.IndexAny(base, "?#"); i >= 0 {
			base = base[:i]
		}
		base = strings.TrimRight(base, "/")
	}

	out := base + "/export?format=csv"
	if gid != "" {
		out += "&gid=" + gid
	}
	return out
}
