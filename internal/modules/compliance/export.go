package compliance

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

// ExportDelimiter separates columns in the non-compliance export.
const ExportDelimiter = ';'

var exportHeader = []string{"apprenticeName", "score", "status", "reasons"}

// WriteNonCompliantExport writes one row per contract whose status is not
// GOOD, preceded by a header row. An empty overview yields just the header.
func WriteNonCompliantExport(w io.Writer, rows []ContractHealth) error {
	cw := csv.NewWriter(w)
	cw.Comma = ExportDelimiter
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if r.Status == compliance.HealthGood {
			continue
		}
		rec := []string{
			r.ApprenticeName,
			strconv.Itoa(r.Score),
			r.Status,
			strings.Join(r.Reasons, ", "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
