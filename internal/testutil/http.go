package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	DepartmentID *int64
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{ID: 1, Name: "Test Admin", Email: "admin@test.com", Role: "admin"}
}

// ViewerUser returns a read-only TestUser.
func ViewerUser() TestUser {
	return TestUser{ID: 2, Name: "Test Viewer", Email: "viewer@test.com", Role: "viewer"}
}

// ManagerUser returns a TestUser with manager role scoped to departmentID.
func ManagerUser(departmentID int64) TestUser {
	return TestUser{ID: 3, Name: "Test Manager", Email: "manager@test.com", Role: "manager", DepartmentID: &departmentID}
}

// Caller converts u into the identity engine operations take.
func (u TestUser) Caller() authz.Caller {
	role, _ := authz.ParseRole(u.Role)
	return authz.Caller{UserID: u.ID, Name: u.Name, Role: role, DepartmentID: u.DepartmentID}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, body io.Reader, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// AssertHeader checks a response header value.
func (r *ResponseRecorder) AssertHeader(t interface{ Errorf(string, ...any) }, key, expected string) {
	if got := r.Header().Get(key); got != expected {
		t.Errorf("header %s: got %q, want %q", key, got, expected)
	}
}
