package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/csg33k/training-portal/internal/domain"
)

type courseListing struct {
	Course     domain.Course
	Enrollment *domain.Enrollment
}

// courses lists the courses offered to the employee's department, marking
// those the employee is already enrolled in.
func (h *Handler) courses(w http.ResponseWriter, r *http.Request) {
	e := domain.EmployeeFrom(r.Context())

	var all []domain.Course
	h.api.Get(r.Context(), "courses", &all)
	var enrollments []domain.Enrollment
	h.api.Get(r.Context(), "enrollments", &enrollments)

	mine := map[int64]domain.Enrollment{}
	for _, en := range enrollments {
		if en.Employee.ID == e.ID {
			mine[en.Course.ID] = en
		}
	}

	listing := make([]courseListing, 0, len(all))
	for _, c := range all {
		if c.Department != "" && c.Department != e.Department {
			continue
		}
		row := courseListing{Course: c}
		if en, ok := mine[c.ID]; ok {
			en := en
			row.Enrollment = &en
		}
		listing = append(listing, row)
	}

	h.render(w, r, "courses", "Courses", listing)
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e := domain.EmployeeFrom(r.Context())
	payload := map[string]any{"enrollment": map[string]any{
		"employee_id": e.ID,
		"course_id":   r.FormValue("course_id"),
		"status":      "active",
		"progress":    0,
	}}

	res := h.api.Post(r.Context(), "enrollments", payload)
	if res != nil && res.StatusCode == http.StatusCreated {
		h.sessions.AddFlash(w, r, "success", "Enrolled!")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to enroll")
	}
	http.Redirect(w, r, "/courses", http.StatusFound)
}

type takeCourseData struct {
	Course     domain.Course
	Enrollment domain.Enrollment
}

// takeCourse renders the course player. Enrollment is required; the backend
// remains the authority on whether the enrollment is valid.
func (h *Handler) takeCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	e := domain.EmployeeFrom(r.Context())

	var course domain.Course
	if !h.api.Get(r.Context(), "courses/"+formatID(id), &course) {
		h.sessions.AddFlash(w, r, "danger", "Course not found")
		http.Redirect(w, r, "/courses", http.StatusFound)
		return
	}

	en, ok := h.findEnrollment(r, e.ID, id)
	if !ok {
		h.sessions.AddFlash(w, r, "danger", "You must enroll before taking this course")
		http.Redirect(w, r, "/courses", http.StatusFound)
		return
	}

	h.render(w, r, "take_course", course.Title, takeCourseData{Course: course, Enrollment: en})
}

// updateProgress is the one JSON endpoint: the course player reports watch
// progress. It answers status codes rather than redirects.
func (h *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.Current(r)
	if e == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	ctx := domain.WithEmployee(r.Context(), e)
	r = r.WithContext(ctx)

	courseID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid course id"})
		return
	}

	var body struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Progress < 0 || body.Progress > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "progress must be an integer between 0 and 100"})
		return
	}

	en, ok := h.findEnrollment(r, e.ID, courseID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not enrolled"})
		return
	}

	payload := map[string]any{"enrollment": map[string]any{"progress": body.Progress}}
	res := h.api.Patch(ctx, "enrollments/"+formatID(en.ID), payload)
	if res == nil || res.StatusCode != http.StatusOK {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to update progress"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "progress": body.Progress})
}

func (h *Handler) markCompleted(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	e := domain.EmployeeFrom(r.Context())

	en, ok := h.findEnrollment(r, e.ID, courseID)
	if !ok {
		h.sessions.AddFlash(w, r, "danger", "You are not enrolled in this course")
		http.Redirect(w, r, "/courses", http.StatusFound)
		return
	}

	payload := map[string]any{"enrollment": map[string]any{"status": "completed", "progress": 100}}
	res := h.api.Patch(r.Context(), "enrollments/"+formatID(en.ID), payload)
	if res != nil && res.StatusCode == http.StatusOK {
		h.sessions.AddFlash(w, r, "success", "Course marked as completed")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to mark course as completed")
	}
	http.Redirect(w, r, "/courses", http.StatusFound)
}

// findEnrollment fetches the enrollment list and picks the current
// employee's enrollment for the course, joining by id equality only.
func (h *Handler) findEnrollment(r *http.Request, employeeID, courseID int64) (domain.Enrollment, bool) {
	var enrollments []domain.Enrollment
	h.api.Get(r.Context(), "enrollments", &enrollments)
	for _, en := range enrollments {
		if en.Employee.ID == employeeID && en.Course.ID == courseID {
			return en, true
		}
	}
	return domain.Enrollment{}, false
}

// ── Course administration ────────────────────────────────────────────────────

func (h *Handler) manageCourses(w http.ResponseWriter, r *http.Request) {
	var courses []domain.Course
	h.api.Get(r.Context(), "courses", &courses)
	h.render(w, r, "manage_courses", "Manage Courses", courses)
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.api.Post(r.Context(), "courses", map[string]any{"course": courseFields(r)})
	if res != nil && res.StatusCode == http.StatusCreated {
		h.sessions.AddFlash(w, r, "success", "Course created!")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to create course")
	}
	http.Redirect(w, r, "/manage-courses", http.StatusFound)
}

func (h *Handler) editCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.api.Patch(r.Context(), "courses/"+formatID(id), map[string]any{"course": courseFields(r)})
	if res != nil && res.StatusCode == http.StatusOK {
		h.sessions.AddFlash(w, r, "success", "Course updated!")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to update course")
	}
	http.Redirect(w, r, "/manage-courses", http.StatusFound)
}

func (h *Handler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := h.api.Delete(r.Context(), "courses/"+formatID(id))
	if res != nil && res.StatusCode == http.StatusNoContent {
		h.sessions.AddFlash(w, r, "info", "Course deleted")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to delete course")
	}
	http.Redirect(w, r, "/manage-courses", http.StatusFound)
}

func courseFields(r *http.Request) map[string]string {
	return map[string]string{
		"title":            r.FormValue("title"),
		"description":      r.FormValue("description"),
		"duration_minutes": r.FormValue("duration"),
		"capacity":         r.FormValue("capacity"),
		"level":            r.FormValue("level"),
		"department":       r.FormValue("department"),
		"start_date":       r.FormValue("start_date"),
		"end_date":         r.FormValue("end_date"),
		"youtube_url":      r.FormValue("youtube_url"),
	}
}

// ── Enrollment administration ────────────────────────────────────────────────

func (h *Handler) adminEnrollments(w http.ResponseWriter, r *http.Request) {
	var enrollments []domain.Enrollment
	h.api.Get(r.Context(), "enrollments", &enrollments)
	h.render(w, r, "admin_enrollments", "Enrollments", enrollments)
}

func (h *Handler) unenroll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := h.api.Delete(r.Context(), "enrollments/"+formatID(id))
	if res != nil && res.StatusCode == http.StatusNoContent {
		h.sessions.AddFlash(w, r, "info", "Unenrolled")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to unenroll")
	}
	http.Redirect(w, r, "/admin/enrollments", http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
