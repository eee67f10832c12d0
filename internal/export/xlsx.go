// Package export renders report history as an Excel workbook.
package export

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"policeapp/internal/domain/entities"
)

const HistorySheet = "History"

// ContentType is the MIME type of the workbook written by WriteHistory.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var historyHeaders = []interface{}{
	"Report ID", "Crime Type", "Location", "Latitude", "Longitude",
	"Description", "Nearest Station", "Created At (UTC)",
}

// WriteHistory writes one row per report under a header row and streams the
// workbook to w.
func WriteHistory(w io.Writer, reports []*entities.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(HistorySheet)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(HistorySheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", historyHeaders); err != nil {
		return err
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.ID, string(r.CrimeType), r.LocationName, r.Location.Latitude, r.Location.Longitude,
			r.Description, r.NearestStation, r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_, err = f.WriteTo(w)
	return err
}
