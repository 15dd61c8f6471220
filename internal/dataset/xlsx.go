package dataset

import (
	"fmt"
	"io"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/tealeg/xlsx/v2"
)

// DecodeXLSX reads the first sheet of a workbook, treating its first row as
// the header.
func DecodeXLSX(path string) (domain.Dataset, Stats, error) {
	rows, err := readXLSX(path)
	if err != nil {
		return nil, newStats(), err
	}
	return decodeRecords(&sliceReader{rows: rows})
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		blank := true
		for j, cell := range row.Cells {
			cells[j] = cellText(cell)
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// cellText returns the stored value of numeric cells and the display text of
// everything else. Number formats such as "0" would otherwise round
// concentrations on the way in.
func cellText(cell *xlsx.Cell) string {
	if cell.Type() == xlsx.CellTypeNumeric {
		return cell.Value
	}
	return cell.String()
}

// sliceReader feeds in-memory rows to the decoder.
type sliceReader struct {
	rows [][]string
	pos  int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
