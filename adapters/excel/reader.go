package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chartsense/domain/dataset"
	"chartsense/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ReaderConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(DefaultReaderConfig(filePath))
}

// NewDataReaderWithConfig creates a data reader from an explicit config
func NewDataReaderWithConfig(config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		config:   config,
		fileType: fileType,
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

// Name identifies the source in logs and reports
func (r *DataReader) Name() string {
	return filepath.Base(r.config.FilePath)
}

// Load reads the file into a table. The first row is the header; cells are
// kept as trimmed strings and typed later by the classifier.
func (r *DataReader) Load(ctx context.Context) (dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Table{}, err
	}

	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return dataset.Table{}, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
	}

	var (
		records [][]string
		err     error
	)
	startTime := time.Now()
	switch r.fileType {
	case "csv":
		records, err = r.readCSV()
	default:
		records, err = r.readExcel()
	}
	if err != nil {
		return dataset.Table{}, err
	}
	r.logger.Debug("%s file read in %.2fms (%d records)", strings.ToUpper(r.fileType),
		float64(time.Since(startTime).Nanoseconds())/1e6, len(records))

	if len(records) == 0 {
		return dataset.Table{}, fmt.Errorf("%s file has no header row", strings.ToUpper(r.fileType))
	}

	return r.toTable(records), nil
}

// readExcel reads the configured sheet, or the first one
func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// toTable converts raw string records into a table
func (r *DataReader) toTable(records [][]string) dataset.Table {
	headers := Headers(records[0])

	rows := make([]dataset.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(dataset.Row, len(headers))
		for j, cell := range record {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		rows = append(rows, row)
	}

	table := dataset.Table{Columns: headers, Rows: rows}
	if limited := table.Head(r.config.MaxRows); limited.Len() < table.Len() {
		r.logger.Warn("%s: keeping the first %d of %d rows", r.Name(), limited.Len(), table.Len())
		table = limited
	}

	r.logger.Info("%s processed (%d columns, %d rows)", r.Name(), len(table.Columns), table.Len())
	return table
}

// Headers trims header cells and names blank or repeated ones by position
func Headers(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" || seen[name] {
			name = fmt.Sprintf("column_%d", i+1)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}
