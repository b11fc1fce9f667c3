package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/training-portal/internal/adapters/pdf"
	"github.com/csg33k/training-portal/internal/domain"
	"github.com/csg33k/training-portal/internal/ports"
	"github.com/csg33k/training-portal/internal/session"
)

// ── Stub backend ─────────────────────────────────────────────────────────────

type postCall struct {
	path    string
	payload any
	files   []ports.Attachment
}

type patchCall struct {
	path    string
	payload any
}

// stubAPI implements ports.BackendClient against canned GET bodies and fixed
// write responses. Every write is recorded so tests can assert on what was
// (or was not) submitted.
type stubAPI struct {
	data      map[string]string // GET path -> JSON body
	postRes   *ports.Response
	patchRes  *ports.Response
	deleteRes *ports.Response

	posts   []postCall
	patches []patchCall
	deletes []string
}

func (s *stubAPI) Get(_ context.Context, path string, out any) bool {
	body, ok := s.data[path]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(body), out) == nil
}

func (s *stubAPI) Post(_ context.Context, path string, payload any, files ...ports.Attachment) *ports.Response {
	s.posts = append(s.posts, postCall{path: path, payload: payload, files: files})
	return s.postRes
}

func (s *stubAPI) Patch(_ context.Context, path string, payload any) *ports.Response {
	s.patches = append(s.patches, patchCall{path: path, payload: payload})
	return s.patchRes
}

func (s *stubAPI) Delete(_ context.Context, path string) *ports.Response {
	s.deletes = append(s.deletes, path)
	return s.deleteRes
}

// ── Fixtures & helpers ───────────────────────────────────────────────────────

var (
	employeeUser = domain.Employee{
		ID: 1, FirstName: "Emp", LastName: "User",
		Email: "emp@example.com", Department: "IT",
	}
	adminUser = domain.Employee{
		ID: 2, FirstName: "Admin", LastName: "User",
		Email: "admin@example.com", Department: "IT", Admin: true,
	}
)

func newTestHandler(api ports.BackendClient) *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(api, pdf.NewRenderer(), session.NewManager("test_secret"), log)
}

// sessionCookie logs e in by writing the session cookie through the manager.
func sessionCookie(t *testing.T, h *Handler, e domain.Employee) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, h.sessions.SetCurrent(rec, req, e))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func do(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

// flashes pops the notices queued by the handler under test, by replaying
// the cookies it set on the response.
func flashes(h *Handler, rec *httptest.ResponseRecorder) []session.Flash {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return h.sessions.Flashes(httptest.NewRecorder(), req)
}

// ── Guards ───────────────────────────────────────────────────────────────────

func TestDashboardRequiresLogin(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	paths := []string{"/admin-dashboard", "/manage_employees", "/manage-courses", "/admin/enrollments", "/admin/certificates"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, p, nil)
			req.AddCookie(sessionCookie(t, h, employeeUser))
			rec := do(h, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		})
	}
}

func TestAdminRoutesRedirectAnonymousToDashboard(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/admin-dashboard", nil))

	// /dashboard then forwards anonymous visitors to /login.
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

// ── Login / logout ───────────────────────────────────────────────────────────

func loginRequest(form string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLogin_EmployeeRedirectsToDashboard(t *testing.T) {
	body, _ := json.Marshal(employeeUser)
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusOK, Body: body}}
	h := newTestHandler(api)

	rec := do(h, loginRequest("email=Emp%40Example.com&hire_date=2024-01-01"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	require.Len(t, api.posts, 1)
	assert.Equal(t, "employees/login", api.posts[0].path)
	payload, ok := api.posts[0].payload.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "emp@example.com", payload["email"], "email must be lowercased")
}

func TestLogin_AdminRedirectsToAdminDashboard(t *testing.T) {
	body, _ := json.Marshal(adminUser)
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusOK, Body: body}}
	h := newTestHandler(api)

	rec := do(h, loginRequest("email=admin%40example.com&hire_date=2024-01-01"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin-dashboard", rec.Header().Get("Location"))
}

func TestLogin_FailureReRendersForm(t *testing.T) {
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusUnauthorized}}
	h := newTestHandler(api)

	rec := do(h, loginRequest("email=wrong%40example.com&hire_date=2024-01-01"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid login details")
}

func TestLogin_BackendDownReRendersForm(t *testing.T) {
	api := &stubAPI{} // postRes nil: transport failure
	h := newTestHandler(api)

	rec := do(h, loginRequest("email=emp%40example.com&hire_date=2024-01-01"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid login details")
}

func TestLogout_ClearsSession(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRegister_SuccessLogsInAndRedirects(t *testing.T) {
	body, _ := json.Marshal(employeeUser)
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusCreated, Body: body}}
	h := newTestHandler(api)

	form := "first_name=Emp&last_name=User&email=emp%40example.com&department=IT&hire_date=2024-01-01&gender=male"
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	require.Len(t, api.posts, 1)
	payload := api.posts[0].payload.(map[string]any)
	fields := payload["employee"].(map[string]string)
	assert.Equal(t, "Male", fields["gender"], "gender must be capitalized")
}

func TestRegister_FailureReRendersForm(t *testing.T) {
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusBadRequest}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("first_name=X"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to create employee.")
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboard_FiltersToCurrentEmployee(t *testing.T) {
	api := &stubAPI{data: map[string]string{
		"enrollments": `[
			{"id": 1, "employee": {"id": 1}, "course": {"id": 10, "title": "Course A"}, "status": "completed"},
			{"id": 2, "employee": {"id": 999}, "course": {"id": 20, "title": "Someone else's course"}, "status": "active"}
		]`,
		"certificates": `[
			{"id": 5, "name": "Cert A", "course": {"id": 10, "title": "Course A"}},
			{"id": 6, "name": "Cert X", "course": {"id": 999, "title": "Other"}}
		]`,
	}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Course A")
	assert.NotContains(t, body, "Someone else's course")
	assert.Contains(t, body, "Cert A")
	assert.NotContains(t, body, "Cert X")
}

func TestDashboard_AdminBouncesToAdminDashboard(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, h, adminUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin-dashboard", rec.Header().Get("Location"))
}

func TestDashboard_BackendDownRendersEmpty(t *testing.T) {
	h := newTestHandler(&stubAPI{}) // every Get misses

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enrolled in any course")
}

// ── Courses ──────────────────────────────────────────────────────────────────

func TestCourses_FilteredByDepartment(t *testing.T) {
	api := &stubAPI{data: map[string]string{
		"courses": `[
			{"id": 1, "title": "IT Course 1", "department": "IT"},
			{"id": 2, "title": "HR Course 1", "department": "HR"}
		]`,
		"enrollments": `[]`,
	}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "IT Course 1")
	assert.NotContains(t, rec.Body.String(), "HR Course 1")
}

func TestEnroll_PostsEnrollmentAndRedirects(t *testing.T) {
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusCreated}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader("course_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/courses", rec.Header().Get("Location"))
	require.Len(t, api.posts, 1)
	assert.Equal(t, "enrollments", api.posts[0].path)
}

func TestTakeCourse_RequiresEnrollment(t *testing.T) {
	api := &stubAPI{data: map[string]string{
		"courses/1":   `{"id": 1, "title": "C1", "youtube_url": "https://youtu.be/abc123"}`,
		"enrollments": `[]`,
	}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodGet, "/course/1/take", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/courses", rec.Header().Get("Location"))
}

func TestTakeCourse_OKWhenEnrolled(t *testing.T) {
	api := &stubAPI{data: map[string]string{
		"courses/1": `{"id": 1, "title": "C1", "youtube_url": "https://youtu.be/abc123"}`,
		"enrollments": `[
			{"id": 10, "employee": {"id": 1}, "course": {"id": 1}, "status": "active", "progress": 40}
		]`,
	}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodGet, "/course/1/take", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "C1")
}

// ── Progress ─────────────────────────────────────────────────────────────────

func progressRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/update-progress/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUpdateProgress_Unauthenticated(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	rec := do(h, progressRequest(`{"progress": 50}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProgress_NotEnrolled(t *testing.T) {
	api := &stubAPI{data: map[string]string{"enrollments": `[]`}}
	h := newTestHandler(api)

	req := progressRequest(`{"progress": 50}`)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, api.patches)
}

func TestUpdateProgress_OK(t *testing.T) {
	api := &stubAPI{
		data: map[string]string{
			"enrollments": `[{"id": 10, "employee": {"id": 1}, "course": {"id": 1}, "progress": 0}]`,
		},
		patchRes: &ports.Response{StatusCode: http.StatusOK},
	}
	h := newTestHandler(api)

	req := progressRequest(`{"progress": 80}`)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, api.patches, 1)
	assert.Equal(t, "enrollments/10", api.patches[0].path)
}

func TestUpdateProgress_RejectsOutOfRange(t *testing.T) {
	h := newTestHandler(&stubAPI{})

	req := progressRequest(`{"progress": 150}`)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkCompleted_PatchesStatusAndRedirects(t *testing.T) {
	api := &stubAPI{
		data: map[string]string{
			"enrollments": `[{"id": 10, "employee": {"id": 1}, "course": {"id": 1}, "status": "active"}]`,
		},
		patchRes: &ports.Response{StatusCode: http.StatusOK},
	}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/mark-completed/1", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/courses", rec.Header().Get("Location"))
	require.Len(t, api.patches, 1)
	assert.Equal(t, "enrollments/10", api.patches[0].path)
}

func TestMarkCompleted_NotEnrolledRedirects(t *testing.T) {
	api := &stubAPI{data: map[string]string{"enrollments": `[]`}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/mark-completed/1", nil)
	req.AddCookie(sessionCookie(t, h, employeeUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/courses", rec.Header().Get("Location"))
	assert.Empty(t, api.patches)
}

// ── Admin CRUD plumbing ──────────────────────────────────────────────────────

func TestDeleteEmployee_RedirectsToManageEmployees(t *testing.T) {
	api := &stubAPI{deleteRes: &ports.Response{StatusCode: http.StatusNoContent}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/employee/delete/1", nil)
	req.AddCookie(sessionCookie(t, h, adminUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/manage_employees", rec.Header().Get("Location"))
	assert.Equal(t, []string{"employees/1"}, api.deletes)
}

func TestCreateCourse_RedirectsToManageCourses(t *testing.T) {
	api := &stubAPI{postRes: &ports.Response{StatusCode: http.StatusCreated}}
	h := newTestHandler(api)

	form := "title=New+Course&description=Desc&duration=60&capacity=10&level=Beginner&start_date=2024-01-01&end_date=2024-01-31&youtube_url=https%3A%2F%2Fyoutu.be%2Fabc123"
	req := httptest.NewRequest(http.MethodPost, "/manage-courses", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionCookie(t, h, adminUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/manage-courses", rec.Header().Get("Location"))

	require.Len(t, api.posts, 1)
	payload := api.posts[0].payload.(map[string]any)
	fields := payload["course"].(map[string]string)
	assert.Equal(t, "60", fields["duration_minutes"])
}

func TestUnenroll_RedirectsToAdminEnrollments(t *testing.T) {
	api := &stubAPI{deleteRes: &ports.Response{StatusCode: http.StatusNoContent}}
	h := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/unenroll/1", nil)
	req.AddCookie(sessionCookie(t, h, adminUser))
	rec := do(h, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/enrollments", rec.Header().Get("Location"))
	assert.Equal(t, []string{"enrollments/1"}, api.deletes)
}
