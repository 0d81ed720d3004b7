package idleresources_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/idlehub/internal/app/features/idleresources"
	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/app/system/ratelimit"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/dalemusser/idlehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type env struct {
	store       *testutil.MemStore
	fx          *testutil.Fixtures
	handler     *idleresources.Handler
	router      chi.Router
	engineering models.Department
	sales       models.Department
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := testutil.NewMemStore()
	fx := testutil.NewFixtures(t, store)
	eng := resourceengine.New(store, store.Departments(), store, resourceengine.Config{}, zap.NewNop())
	eng.Now = func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) }

	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := idleresources.NewHandler(eng, zap.NewNop())
	return &env{
		store:       store,
		fx:          fx,
		handler:     h,
		router:      idleresources.Routes(h, sm),
		engineering: fx.CreateDepartment("Engineering", "ENG"),
		sales:       fx.CreateDepartment("Sales", "SAL"),
	}
}

func (e *env) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestList_ScopedManagerSeesOwnDepartment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.fx.CreateResource(ctx, "EMP001", "Ann", e.engineering, testutil.Date(2025, 1, 10))
	e.fx.CreateResource(ctx, "EMP002", "Ben", e.sales, testutil.Date(2025, 2, 10))

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/?departmentId="+strconv.FormatInt(e.sales.ID, 10), nil, testutil.ManagerUser(e.engineering.ID)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertHeader(t, "Content-Type", "application/json")

	var page struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0]["employeeCode"] != "EMP001" {
		t.Errorf("data: got %v", page.Data)
	}
	if page.Total != 1 {
		t.Errorf("total: got %d, want 1", page.Total)
	}
}

func TestList_InvalidParameterIs400(t *testing.T) {
	e := newEnv(t)
	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/?status=retired", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"status"`)
}

func TestSearch_HighlightsMatch(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateResource(context.Background(), "EMP001", "Ann Lee", e.engineering, testutil.Date(2025, 1, 10))

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/search?searchTerm=lee", nil, testutil.ViewerUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `<mark>Lee</mark>`)
}

func TestNotSignedIn_Is401(t *testing.T) {
	e := newEnv(t)
	rec := e.do(testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestWriteRoutes_ViewerForbidden(t *testing.T) {
	e := newEnv(t)
	r := e.fx.CreateResource(context.Background(), "EMP001", "Ann", e.engineering, testutil.Date(2025, 1, 10))
	id := strconv.FormatInt(r.ID, 10)

	tests := []struct {
		method, target, body string
	}{
		{"POST", "/", `{}`},
		{"PUT", "/" + id, `{}`},
		{"DELETE", "/" + id, ``},
		{"POST", "/batch-delete", `{"ids":[1]}`},
		{"POST", "/import", ``},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := e.do(testutil.NewAuthenticatedRequest(tt.method, tt.target, strings.NewReader(tt.body), testutil.ViewerUser()))
			rec.AssertStatus(t, http.StatusForbidden)
		})
	}
	if len(e.store.All()) != 1 {
		t.Error("viewer request modified the store")
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	e := newEnv(t)
	body := `{"employeeCode":"EMP010","fullName":"Dana Cruz","departmentId":` + strconv.FormatInt(e.engineering.ID, 10) +
		`,"position":"Developer","idleFrom":"2025-03-01","status":"idle","rate":"40.5"}`

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusCreated)
	var created map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	id := strconv.FormatInt(int64(created["id"].(float64)), 10)

	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusConflict)

	rec = e.do(testutil.NewAuthenticatedRequest("GET", "/"+id, nil, testutil.ViewerUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"employeeCode":"EMP010"`)

	rec = e.do(testutil.NewAuthenticatedRequest("PUT", "/"+id, strings.NewReader(`{"position":"Architect"}`), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"position":"Architect"`)
	rec.AssertContains(t, `"fullName":"Dana Cruz"`)
	rec.AssertContains(t, `"rate":"40.5"`)

	rec = e.do(testutil.NewAuthenticatedRequest("DELETE", "/"+id, nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNoContent)

	rec = e.do(testutil.NewAuthenticatedRequest("GET", "/"+id, nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestUpdate_InvalidMergedRecordIs400(t *testing.T) {
	e := newEnv(t)
	r := e.fx.CreateResource(context.Background(), "EMP001", "Ann", e.engineering, testutil.Date(2025, 3, 1))
	id := strconv.FormatInt(r.ID, 10)

	tests := []struct {
		body  string
		field string
	}{
		{`{"idleTo":"2025-02-01"}`, "idleTo"},
		{`{"fullName":""}`, "fullName"},
		{`{"status":"gone"}`, "status"},
		{`{"employeeCode":"EMP999"}`, "employeeCode"},
	}
	for _, tt := range tests {
		rec := e.do(testutil.NewAuthenticatedRequest("PUT", "/"+id, strings.NewReader(tt.body), testutil.AdminUser()))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, `"field":"`+tt.field+`"`)
	}
}

func TestWrites_OutlastShortTimeout(t *testing.T) {
	timeouts.Configure(timeouts.Config{Short: 5 * time.Millisecond})
	t.Cleanup(timeouts.Reset)

	e := newEnv(t)
	e.store.WriteDelay = 50 * time.Millisecond

	body := `{"employeeCode":"EMP020","fullName":"Slow Write","departmentId":` + strconv.FormatInt(e.engineering.ID, 10) +
		`,"position":"Developer","idleFrom":"2025-03-01","status":"idle"}`
	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusCreated)
	var created map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	idv, ok := created["id"].(float64)
	if !ok {
		t.Fatalf("create response has no id: %s", rec.Body.String())
	}
	id := strconv.FormatInt(int64(idv), 10)

	rec = e.do(testutil.NewAuthenticatedRequest("PUT", "/"+id, strings.NewReader(`{"position":"Lead"}`), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	rec = e.do(testutil.NewAuthenticatedRequest("DELETE", "/"+id, nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNoContent)
}

func TestServeCVFiles(t *testing.T) {
	e := newEnv(t)
	r := e.fx.CreateResource(context.Background(), "EMP001", "Ann", e.engineering, testutil.Date(2025, 1, 10))
	foreign := e.fx.CreateResource(context.Background(), "EMP002", "Bo", e.sales, testutil.Date(2025, 1, 10))
	e.store.AddCVFile(models.CVFile{ResourceID: r.ID, FileName: "ann.pdf", IsActive: true, UploadedAt: time.Now()})

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/"+strconv.FormatInt(r.ID, 10)+"/cv-files", nil, testutil.ViewerUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"fileName":"ann.pdf"`)

	rec = e.do(testutil.NewAuthenticatedRequest("GET", "/"+strconv.FormatInt(foreign.ID, 10)+"/cv-files", nil, testutil.ManagerUser(e.engineering.ID)))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestCreate_ForeignDepartmentIs403(t *testing.T) {
	e := newEnv(t)
	body := `{"employeeCode":"EMP011","fullName":"Eli","departmentId":` + strconv.FormatInt(e.sales.ID, 10) +
		`,"position":"Developer","idleFrom":"2025-03-01","status":"idle"}`
	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(body), testutil.ManagerUser(e.engineering.ID)))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestCreate_MalformedJSONIs400(t *testing.T) {
	e := newEnv(t)
	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(`{"employeeCode":`), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestGet_DirectHandlerWithURLParam(t *testing.T) {
	e := newEnv(t)
	req := testutil.NewAuthenticatedRequest("GET", "/abc", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", "abc")
	rec := testutil.NewRecorder()
	e.handler.ServeGet(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"id"`)
}

func TestBatchDelete_ReportsMissing(t *testing.T) {
	e := newEnv(t)
	r := e.fx.CreateResource(context.Background(), "EMP001", "Ann", e.engineering, testutil.Date(2025, 1, 10))
	body := `{"ids":[` + strconv.FormatInt(r.ID, 10) + `,9999]}`

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/batch-delete", strings.NewReader(body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var res resourceengine.BatchResult
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Deleted != 1 || len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "9999") {
		t.Errorf("batch result: got %+v", res)
	}

	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/batch-delete", strings.NewReader(`{"ids":[]}`), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func multipartFile(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(data)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestImport_CSVUpload(t *testing.T) {
	e := newEnv(t)
	csv := strings.Join(xlsxutil.ImportHeader, ",") + "\n" +
		"EMP201,Ann,Engineering,Developer,ann@example.com,Go,2025-01-15,50,Idle\n" +
		"EMP202,Ben,Nowhere,Designer,,,2025-01-15,,Idle\n"
	body, ct := multipartFile(t, "file", "resources.csv", []byte(csv))

	req := testutil.NewAuthenticatedRequest("POST", "/import", body, testutil.AdminUser())
	req.Header.Set("Content-Type", ct)
	rec := e.do(req)
	rec.AssertStatus(t, http.StatusOK)

	var res resourceengine.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.SuccessCount != 1 || res.ErrorCount != 1 || res.TotalProcessed != 2 {
		t.Errorf("counts: got %+v", res)
	}
}

func TestImport_BadHeaderIs422(t *testing.T) {
	e := newEnv(t)
	csv := "Employee Code,Full Name\nEMP1,Ann\n"
	body, ct := multipartFile(t, "file", "resources.csv", []byte(csv))

	req := testutil.NewAuthenticatedRequest("POST", "/import", body, testutil.AdminUser())
	req.Header.Set("Content-Type", ct)
	rec := e.do(req)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, `"missing"`)
}

func TestImport_NoFileIs400(t *testing.T) {
	e := newEnv(t)
	body, ct := multipartFile(t, "", "", nil)
	req := testutil.NewAuthenticatedRequest("POST", "/import", body, testutil.AdminUser())
	req.Header.Set("Content-Type", ct)
	rec := e.do(req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"file"`)
}

func TestExport_CSVDownload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.fx.CreateResource(ctx, "EMP001", "Ann", e.engineering, testutil.Date(2025, 1, 10))
	e.fx.CreateResource(ctx, "EMP002", "Ben", e.sales, testutil.Date(2025, 2, 10))

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/export?format=csv", nil, testutil.ManagerUser(e.engineering.ID)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertHeader(t, "Content-Type", "text/csv; charset=utf-8")
	rec.AssertHeader(t, "Content-Disposition", `attachment; filename=idle-resources-2025-06-15.csv`)
	rec.AssertContains(t, "EMP001")
	if strings.Contains(rec.Body.String(), "EMP002") {
		t.Error("export leaked a record outside the caller's department")
	}
	if got := rec.Header().Get("Content-Length"); got != strconv.Itoa(rec.Body.Len()) {
		t.Errorf("Content-Length: got %s, body %d", got, rec.Body.Len())
	}
}

func TestExport_UnknownFormatIs400(t *testing.T) {
	e := newEnv(t)
	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/export?format=pdf", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"format"`)
}

func TestExport_StoreFailureSendsNoDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.fx.CreateResource(ctx, "EMP001", "Ann", e.engineering, testutil.Date(2025, 1, 10))
	e.fx.CreateResource(ctx, "EMP002", "Ben", e.engineering, testutil.Date(2025, 2, 10))
	e.store.FailEach = context.DeadlineExceeded

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/export", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusInternalServerError)
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("failed export must not be offered as a download")
	}
}

func TestExport_RateLimitedPerUser(t *testing.T) {
	e := newEnv(t)
	e.handler.Exchange = ratelimit.New(1, time.Minute)
	t.Cleanup(e.handler.Exchange.Stop)
	sm, _ := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test", "", time.Hour, false, zap.NewNop())
	router := idleresources.Routes(e.handler, sm)

	send := func(u testutil.TestUser) int {
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/export?format=csv", nil, u))
		return rec.Code
	}
	if got := send(testutil.AdminUser()); got != http.StatusOK {
		t.Fatalf("first export: got %d", got)
	}
	if got := send(testutil.AdminUser()); got != http.StatusTooManyRequests {
		t.Errorf("second export: got %d, want 429", got)
	}
	if got := send(testutil.ViewerUser()); got != http.StatusOK {
		t.Errorf("other user: got %d", got)
	}
}

func TestTemplate_Download(t *testing.T) {
	e := newEnv(t)
	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/template", nil, testutil.ViewerUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertHeader(t, "Content-Type", xlsxutil.ContentType)
	rec.AssertHeader(t, "Content-Disposition", "attachment; filename="+resourceengine.TemplateFilename)
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("template is not a zip container")
	}
}
