package history

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ExportFilename returns the download name for an export taken at now,
// e.g. "url_history_2025-03-14.json".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("url_history_%s.json", now.Format("2006-01-02"))
}

// Export writes the full log as an indented JSON array.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.All())
}
