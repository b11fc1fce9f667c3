package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/csg33k/training-portal/internal/domain"
	"github.com/csg33k/training-portal/internal/ports"
	"github.com/csg33k/training-portal/internal/session"
)

type Handler struct {
	api      ports.BackendClient
	renderer ports.CertificateRenderer
	sessions *session.Manager
	validate *validator.Validate
	log      *slog.Logger
}

func New(api ports.BackendClient, renderer ports.CertificateRenderer, sessions *session.Manager, log *slog.Logger) *Handler {
	return &Handler{
		api:      api,
		renderer: renderer,
		sessions: sessions,
		validate: validator.New(),
		log:      log,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /register", h.registerForm)
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("GET /login", h.loginForm)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /logout", h.logout)

	mux.HandleFunc("GET /dashboard", h.requireLogin(h.dashboard))
	mux.HandleFunc("GET /employee/profile", h.requireLogin(h.profileForm))
	mux.HandleFunc("POST /employee/profile", h.requireLogin(h.updateProfile))
	mux.HandleFunc("GET /courses", h.requireLogin(h.courses))
	mux.HandleFunc("POST /courses", h.requireLogin(h.enroll))
	mux.HandleFunc("GET /course/{id}/take", h.requireLogin(h.takeCourse))
	mux.HandleFunc("POST /update-progress/{id}", h.updateProgress)
	mux.HandleFunc("POST /mark-completed/{id}", h.requireLogin(h.markCompleted))

	mux.HandleFunc("GET /admin-dashboard", h.requireAdmin(h.adminDashboard))
	mux.HandleFunc("GET /manage_employees", h.requireAdmin(h.manageEmployees))
	mux.HandleFunc("POST /admin/create-employee", h.requireAdmin(h.createEmployee))
	mux.HandleFunc("POST /edit-employee/{id}", h.requireAdmin(h.editEmployee))
	mux.HandleFunc("POST /employee/delete/{id}", h.requireAdmin(h.deleteEmployee))
	mux.HandleFunc("GET /manage-courses", h.requireAdmin(h.manageCourses))
	mux.HandleFunc("POST /manage-courses", h.requireAdmin(h.createCourse))
	mux.HandleFunc("POST /course/edit/{id}", h.requireAdmin(h.editCourse))
	mux.HandleFunc("POST /course/delete/{id}", h.requireAdmin(h.deleteCourse))
	mux.HandleFunc("GET /admin/enrollments", h.requireAdmin(h.adminEnrollments))
	mux.HandleFunc("POST /unenroll/{id}", h.requireAdmin(h.unenroll))
	mux.HandleFunc("GET /admin/certificates", h.requireAdmin(h.adminCertificates))
	mux.HandleFunc("POST /admin/certificates/create", h.requireAdmin(h.createCertificate))
	mux.HandleFunc("POST /certificate/update/{id}", h.requireAdmin(h.updateCertificate))
	mux.HandleFunc("POST /certificate/delete/{id}", h.requireAdmin(h.deleteCertificate))

	return mux
}

// ── Guards ───────────────────────────────────────────────────────────────────

// requireLogin short-circuits anonymous requests to the login view and puts
// the session employee on the request context for the wrapped handler and
// the backend client.
func (h *Handler) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := h.sessions.Current(r)
		if e == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r.WithContext(domain.WithEmployee(r.Context(), e)))
	}
}

// requireAdmin short-circuits non-administrators to the employee dashboard.
// Anonymous requests bounce the same way; /dashboard forwards them to /login.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := h.sessions.Current(r)
		if e == nil || !e.Admin {
			h.sessions.AddFlash(w, r, "danger", "Admins only")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		next(w, r.WithContext(domain.WithEmployee(r.Context(), e)))
	}
}

// ── Public pages ─────────────────────────────────────────────────────────────

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", "Training Portal", nil)
}

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", "Register", nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload := map[string]any{"employee": employeeFields(r)}

	res := h.api.Post(r.Context(), "employees", payload)
	if res != nil && res.StatusCode == http.StatusCreated {
		var e domain.Employee
		if err := res.Decode(&e); err == nil {
			_ = h.sessions.SetCurrent(w, r, e)
			h.sessions.AddFlash(w, r, "success", "Account created successfully!")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}

	h.sessions.AddFlash(w, r, "danger", "Failed to create employee.")
	h.render(w, r, "register", "Register", nil)
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Login", nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload := map[string]string{
		"email":     strings.ToLower(r.FormValue("email")),
		"hire_date": strings.TrimSpace(r.FormValue("hire_date")),
	}

	res := h.api.Post(r.Context(), "employees/login", payload)
	if res != nil && res.StatusCode == http.StatusOK {
		var e domain.Employee
		if err := res.Decode(&e); err == nil {
			_ = h.sessions.SetCurrent(w, r, e)
			if e.Admin {
				http.Redirect(w, r, "/admin-dashboard", http.StatusFound)
				return
			}
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}

	h.sessions.AddFlash(w, r, "danger", "Invalid login details")
	h.render(w, r, "login", "Login", nil)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ── Dashboards ───────────────────────────────────────────────────────────────

type enrolledCourse struct {
	Course       domain.Course
	EnrollmentID int64
	Status       string
	Progress     int
}

type dashboardData struct {
	MyCourses    []enrolledCourse
	Certificates []domain.Certificate
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	e := domain.EmployeeFrom(r.Context())
	if e.Admin {
		http.Redirect(w, r, "/admin-dashboard", http.StatusFound)
		return
	}

	var enrollments []domain.Enrollment
	h.api.Get(r.Context(), "enrollments", &enrollments)
	var certificates []domain.Certificate
	h.api.Get(r.Context(), "certificates", &certificates)

	data := dashboardData{}
	myCourseIDs := map[int64]bool{}
	for _, en := range enrollments {
		if en.Employee.ID != e.ID {
			continue
		}
		myCourseIDs[en.Course.ID] = true
		data.MyCourses = append(data.MyCourses, enrolledCourse{
			Course:       en.Course,
			EnrollmentID: en.ID,
			Status:       en.Status,
			Progress:     en.Progress,
		})
	}
	for _, c := range certificates {
		if myCourseIDs[c.Course.ID] {
			data.Certificates = append(data.Certificates, c)
		}
	}

	h.render(w, r, "dashboard", "Dashboard", data)
}

type employeeOverview struct {
	Employee domain.Employee
	Courses  []enrolledCourse
}

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	var employees []domain.Employee
	h.api.Get(r.Context(), "employees", &employees)
	var enrollments []domain.Enrollment
	h.api.Get(r.Context(), "enrollments", &enrollments)

	overview := make([]employeeOverview, 0, len(employees))
	for _, emp := range employees {
		row := employeeOverview{Employee: emp}
		for _, en := range enrollments {
			if en.Employee.ID == emp.ID {
				row.Courses = append(row.Courses, enrolledCourse{
					Course:       en.Course,
					EnrollmentID: en.ID,
					Status:       en.Status,
					Progress:     en.Progress,
				})
			}
		}
		overview = append(overview, row)
	}

	h.render(w, r, "admin_dashboard", "Admin Dashboard", overview)
}

// ── Profile ──────────────────────────────────────────────────────────────────

func (h *Handler) profileForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "profile", "My Profile", domain.EmployeeFrom(r.Context()))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e := domain.EmployeeFrom(r.Context())
	payload := map[string]any{"employee": employeeFields(r)}

	res := h.api.Patch(r.Context(), "employees/"+formatID(e.ID), payload)
	if res != nil && res.StatusCode == http.StatusOK {
		var updated domain.Employee
		if err := res.Decode(&updated); err == nil {
			_ = h.sessions.SetCurrent(w, r, updated)
		}
		h.sessions.AddFlash(w, r, "success", "Profile updated")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to update profile")
	}
	http.Redirect(w, r, "/employee/profile", http.StatusFound)
}

// employeeFields collects the employee form fields into the backend's JSON
// shape. Gender is capitalized and hire_date trimmed, matching what the
// backend validates.
func employeeFields(r *http.Request) map[string]string {
	return map[string]string{
		"first_name": r.FormValue("first_name"),
		"last_name":  r.FormValue("last_name"),
		"email":      r.FormValue("email"),
		"position":   r.FormValue("position"),
		"department": r.FormValue("department"),
		"phone":      r.FormValue("phone"),
		"hire_date":  strings.TrimSpace(r.FormValue("hire_date")),
		"gender":     capitalize(r.FormValue("gender")),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}
