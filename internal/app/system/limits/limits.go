// internal/app/system/limits/limits.go
package limits

// Request body size limits. Spreadsheet uploads are bounded separately by
// the import_max_size setting.
const (
	// MaxJSONBodySize bounds create, update and batch-delete bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MultipartOverhead is allowed on top of the file limit for form framing.
	MultipartOverhead = 1 << 20 // 1 MB

	// MaxBatchDeleteIDs bounds a single batch delete.
	MaxBatchDeleteIDs = 1000
)
