package handlers

import (
	"net/http"

	"github.com/csg33k/training-portal/internal/domain"
)

type manageEmployeesData struct {
	Employees   []domain.Employee
	Enrollments []domain.Enrollment
}

func (h *Handler) manageEmployees(w http.ResponseWriter, r *http.Request) {
	var data manageEmployeesData
	h.api.Get(r.Context(), "employees", &data.Employees)
	h.api.Get(r.Context(), "enrollments", &data.Enrollments)
	h.render(w, r, "manage_employees", "Manage Employees", data)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload := map[string]any{"employee": employeeFields(r)}

	res := h.api.Post(r.Context(), "employees", payload)
	if res != nil && res.StatusCode == http.StatusCreated {
		h.sessions.AddFlash(w, r, "success", "Employee created")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to create employee")
	}
	http.Redirect(w, r, "/manage_employees", http.StatusFound)
}

func (h *Handler) editEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload := map[string]any{"employee": employeeFields(r)}

	res := h.api.Patch(r.Context(), "employees/"+formatID(id), payload)
	if res != nil && res.StatusCode == http.StatusOK {
		h.sessions.AddFlash(w, r, "success", "Employee updated")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to update employee")
	}
	http.Redirect(w, r, "/manage_employees", http.StatusFound)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := h.api.Delete(r.Context(), "employees/"+formatID(id))
	if res != nil && res.StatusCode == http.StatusNoContent {
		h.sessions.AddFlash(w, r, "info", "Employee deleted")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to delete employee")
	}
	http.Redirect(w, r, "/manage_employees", http.StatusFound)
}
