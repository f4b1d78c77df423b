package excel

// ReaderConfig holds configuration for a file row source
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet,omitempty"`    // xlsx only; first sheet when empty
	MaxRows  int    `json:"max_rows,omitempty"` // 0 means no limit
}

// DefaultReaderConfig returns sensible defaults for reading path
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{FilePath: path}
}
