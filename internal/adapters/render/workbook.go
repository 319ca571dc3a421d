package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/sor"
)

const defaultSheet = "Sheet1"

// Workbook writes both leaderboards of report as an XLSX file, one sheet per
// metric. Default cells are set in an orange font.
func Workbook(w io.Writer, report *sor.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("workbook header style: %w", err)
	}
	fallback, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "E67E22", Italic: true}})
	if err != nil {
		return fmt.Errorf("workbook default style: %w", err)
	}

	for _, m := range model.Metrics {
		if err := writeSheet(f, m.Title(), report.Board(m), header, fallback); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, board *sor.Board, headerStyle, defaultStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("workbook sheet %s: %w", name, err)
	}

	head := []any{"Rank", "Competitor", "WCA ID", "Total"}
	for _, d := range event.All() {
		head = append(head, d.Code)
	}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return fmt.Errorf("workbook header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(head), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("workbook header style: %w", err)
	}

	const firstEventCol = 5
	for i, st := range board.Standings {
		row := i + 2
		values := []any{st.Rank, st.Competitor.Name(), st.Competitor.ID(), st.Total}
		for _, c := range st.Cells {
			if c.Kind == sor.Blank {
				values = append(values, nil)
				continue
			}
			values = append(values, c.Rank)
		}
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, start, &values); err != nil {
			return fmt.Errorf("workbook row %d: %w", row, err)
		}

		for j, c := range st.Cells {
			if c.Kind != sor.Default {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(firstEventCol+j, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(name, cell, cell, defaultStyle); err != nil {
				return fmt.Errorf("workbook default style: %w", err)
			}
		}
	}

	if err := f.SetColWidth(name, "B", "B", 28); err != nil {
		return fmt.Errorf("workbook column width: %w", err)
	}
	return nil
}
