// Package report renders driver records as the one-line-per-driver listing
// the tool prints on stdout.
package report

import (
	"fmt"
	"io"

	"github.com/thenoblet/indi-driver-fetcher/internal/drivers"
)

// Line formats a single record.
func Line(r drivers.Record) string {
	return fmt.Sprintf("Driver: %s, Version: %s, Latest Git Hash: %s", r.Name, r.Version, r.GitInfo)
}

// Write prints one line per record to w, in slice order.
func Write(w io.Writer, records []drivers.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, Line(r)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
