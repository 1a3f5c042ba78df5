package excel

// RawRowData represents a row of raw spreadsheet data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete spreadsheet dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column types reported by InferColumnTypes
const (
	ColumnNumeric     = "numeric"
	ColumnCategorical = "categorical"
	ColumnString      = "string"
)
