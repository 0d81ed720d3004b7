// internal/app/system/xlsxutil/columns.go
package xlsxutil

// ContentType is the MIME type of .xlsx documents.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names used by generated workbooks.
const (
	DataSheet         = "Idle Resources"
	InstructionsSheet = "Instructions"
)

// ImportHeader is the exact header row an import file must start with.
var ImportHeader = []string{
	"Employee Code",
	"Full Name",
	"Department",
	"Position",
	"Email",
	"Skill Set",
	"Idle From",
	"Rate",
	"Status",
}

// Import column positions within ImportHeader.
const (
	ColEmployeeCode = iota
	ColFullName
	ColDepartment
	ColPosition
	ColEmail
	ColSkillSet
	ColIdleFrom
	ColRate
	ColStatus
)

// ExportHeader is the header row of an export.
var ExportHeader = []string{
	"Employee Code",
	"Full Name",
	"Department",
	"Position",
	"Email",
	"Skill Set",
	"Idle From",
	"Idle To",
	"Status",
	"Rate",
	"Process Note",
	"Created Date",
	"Updated Date",
}
