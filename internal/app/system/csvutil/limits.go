// internal/app/system/csvutil/limits.go
package csvutil

// Row limit applied when the caller passes none.
const MaxRows = 20000
