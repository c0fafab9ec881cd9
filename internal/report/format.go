package report

import (
	"encoding/json"
	"io"
	"time"

	"skilltest/internal/scheduler"
)

// isoMillis formats t as ISO-8601 UTC with millisecond precision, matching
// the execution-report schema's "timestamp" field.
func isoMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// WriteJSON renders the full execution report (every skill, not just failed
// ones) as pretty-printed JSON, used by `--format json`.
func WriteJSON(w io.Writer, r scheduler.Report, now time.Time) error {
	doc := toExecutionReport(isoMillis(now), r)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
