package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile is returned for file types that cannot be read as text.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ReadFile returns the text content of a local learning file. Plain text,
// markdown and CSV are read as-is; spreadsheets are flattened row by row.
// PDF and Word documents are rejected.
func ReadFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return "", fmt.Errorf("%w: PDF parsing is not supported, paste the text instead", ErrUnsupportedFile)
	case ".doc", ".docx":
		return "", fmt.Errorf("%w: Word documents are not supported, paste the text instead", ErrUnsupportedFile)
	case ".xlsx", ".xlsm":
		return readSpreadsheet(path)
	case "", ".txt", ".text", ".md", ".markdown", ".csv", ".srt", ".vtt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

func readSpreadsheet(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String()), nil
}
