package geodb

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readTabular returns a population table as CSV bytes regardless of on-disk
// format. ABS publishes some population tables as XLSX workbooks; those are
// flattened (first sheet) to CSV so the same typed decoding applies to both.
func readTabular(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxToCSV(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: read %s", path)
	}
	return data, nil
}

// xlsxToCSV reads the first sheet of a workbook and re-encodes it as CSV.
func xlsxToCSV(path string) ([]byte, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("geodb: workbook %s has no sheets", path)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if err := w.Write(cells); err != nil {
			return nil, eris.Wrapf(err, "geodb: flatten workbook %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrapf(err, "geodb: flatten workbook %s", path)
	}
	return buf.Bytes(), nil
}
