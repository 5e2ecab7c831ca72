package app

import (
	"net/url"
	"strings"
)

const googleSheetsHost = "docs.google.com"

// normalizeSheetURL turns a Google Sheets share link into its CSV export.
// Published links get output=csv when no output is set. Other URLs are
// returned unchanged.
func normalizeSheetURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil || !strings.EqualFold(parsed.Host, googleSheetsHost) {
		return trimmed
	}

	query := parsed.Query()
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]

	switch {
	case last == "pub" || last == "pubhtml":
		if query.Get("output") == "" || last == "pubhtml" {
			segments[len(segments)-1] = "pub"
			query.Set("output", "csv")
		}
	case last == "edit" || last == "view":
		id := spreadsheetIDFromURL(trimmed)
		if id == "" {
			return trimmed
		}
		gid := query.Get("gid")
		if gid == "" {
			gid = gidFromFragment(parsed.Fragment)
		}

		segments = []string{"spreadsheets", "d", id, "export"}
		query = url.Values{"format": []string{"csv"}}
		if gid != "" {
			query.Set("gid", gid)
		}
		parsed.Fragment = ""
	default:
		return trimmed
	}

	parsed.Path = "/" + strings.Join(segments, "/")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// spreadsheetIDFromURL returns the document id of a /spreadsheets/d/<id>/...
// link, or "" for anything else.
func spreadsheetIDFromURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := 0; i+2 < len(segments); i++ {
		if segments[i] == "spreadsheets" && segments[i+1] == "d" {
			// Published links use /d/e/<id>.
			if segments[i+2] == "e" && i+3 < len(segments) {
				return segments[i+3]
			}
			return segments[i+2]
		}
	}
	return ""
}

func gidFromFragment(fragment string) string {
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return ""
	}
	return values.Get("gid")
}
