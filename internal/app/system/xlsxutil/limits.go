// internal/app/system/xlsxutil/limits.go
package xlsxutil

// Upload size and row limits for spreadsheet processing.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)
