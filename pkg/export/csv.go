// Package export reads and writes the flat delimited files produced by an
// analysis run: the results CSV and the plain-text run log.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"slicethickness/internal/models"
)

// CSV column headers, fixed so exported files stay interchangeable
// between runs and tools.
const (
	HeaderDepth       = "Depth (mm)"
	HeaderThicknessPX = "Thickness (pixels)"
	HeaderThicknessMM = "Thickness (mm)"
)

// WriteSeriesCSV writes the series to path as delimited text, one row per
// sample in series order, under the standard three-column header.
func WriteSeriesCSV(path string, series models.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{HeaderDepth, HeaderThicknessPX, HeaderThicknessMM}); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}

	for _, s := range series {
		record := []string{
			strconv.FormatFloat(s.DepthMM, 'f', -1, 64),
			strconv.FormatFloat(s.ThicknessPX, 'f', -1, 64),
			strconv.FormatFloat(s.ThicknessMM, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %v", err)
		}
	}

	w.Flush()
	return w.Error()
}

// LoadSeriesCSV reads a previously exported series for the companion
// metrics tool. The depth column of historical exports is stored in
// centimeters, so depths are multiplied by 10 on load. The pixel column
// is optional; files with only depth and mm thickness still load.
func LoadSeriesCSV(path string) (models.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %v", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %v", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("results file %s is empty", path)
	}

	depthCol, pxCol, mmCol := -1, -1, -1
	for i, name := range records[0] {
		switch name {
		case HeaderDepth:
			depthCol = i
		case HeaderThicknessPX:
			pxCol = i
		case HeaderThicknessMM:
			mmCol = i
		}
	}
	if depthCol < 0 || mmCol < 0 {
		return nil, fmt.Errorf("results file %s is missing %q or %q columns",
			path, HeaderDepth, HeaderThicknessMM)
	}

	series := make(models.Series, 0, len(records)-1)
	for i, record := range records[1:] {
		depth, err := strconv.ParseFloat(record[depthCol], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad depth value %q: %v", i+1, record[depthCol], err)
		}
		mm, err := strconv.ParseFloat(record[mmCol], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad thickness value %q: %v", i+1, record[mmCol], err)
		}

		sample := models.Sample{
			// Historical exports store this column in cm.
			DepthMM:     depth * 10,
			ThicknessMM: mm,
		}
		if pxCol >= 0 && pxCol < len(record) {
			if px, err := strconv.ParseFloat(record[pxCol], 64); err == nil {
				sample.ThicknessPX = px
			}
		}
		series = append(series, sample)
	}

	return series, nil
}
