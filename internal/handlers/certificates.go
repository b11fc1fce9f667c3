package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/csg33k/training-portal/internal/domain"
	"github.com/csg33k/training-portal/internal/ports"
)

// maxCertificateForm bounds the in-memory size of the creation form,
// logo included.
const maxCertificateForm = 10 << 20

type adminCertificatesData struct {
	Courses      []domain.Course
	Certificates []domain.Certificate
}

func (h *Handler) adminCertificates(w http.ResponseWriter, r *http.Request) {
	var data adminCertificatesData
	h.api.Get(r.Context(), "courses", &data.Courses)
	h.api.Get(r.Context(), "certificates", &data.Certificates)
	h.render(w, r, "admin_certificates", "Certificates", data)
}

// certificateForm carries the creation fields after trimming. EmployeeID is
// the employee the certificate is issued to; it defaults to the issuing
// admin when the form leaves it blank.
type certificateForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	IssuedOn    string `validate:"required"`
	ExpiryDate  string `validate:"required"`
	CourseID    string `validate:"required"`
	EmployeeID  string
}

// createCertificate runs the full issuance pipeline: validate the form,
// render the PDF in memory, and ship it to the backend as a multipart
// upload. Every failure ends in a flash notice and a redirect back to the
// certificate view; the admin simply retries the form.
func (h *Handler) createCertificate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCertificateForm); err != nil {
		h.sessions.AddFlash(w, r, "danger", "Invalid certificate form")
		http.Redirect(w, r, "/admin/certificates", http.StatusFound)
		return
	}
	admin := domain.EmployeeFrom(r.Context())

	form := certificateForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		IssuedOn:    strings.TrimSpace(r.FormValue("issued_on")),
		ExpiryDate:  strings.TrimSpace(r.FormValue("expiry_date")),
		CourseID:    strings.TrimSpace(r.FormValue("course_id")),
		EmployeeID:  strings.TrimSpace(r.FormValue("employee_id")),
	}
	if form.EmployeeID == "" {
		form.EmployeeID = formatID(admin.ID)
	}

	// Validation failures never reach network I/O: no document is generated
	// and no submission occurs.
	if err := h.validate.Struct(form); err != nil {
		h.sessions.AddFlash(w, r, "danger", "Name, description, dates, and course are all required")
		http.Redirect(w, r, "/admin/certificates", http.StatusFound)
		return
	}

	var buf bytes.Buffer
	data := domain.CertificateData{
		Name:            form.Name,
		Description:     form.Description,
		IssuerFirstName: admin.FirstName,
		IssuerLastName:  admin.LastName,
		IssuedOn:        form.IssuedOn,
		ExpiryDate:      form.ExpiryDate,
		Logo:            h.readLogo(r),
	}
	if err := h.renderer.Render(&data, &buf); err != nil {
		h.log.Error("certificate render failed", "name", form.Name, "err", err)
		h.sessions.AddFlash(w, r, "danger", "Failed to generate certificate document")
		http.Redirect(w, r, "/admin/certificates", http.StatusFound)
		return
	}

	fields := map[string]string{
		"certificate[name]":        form.Name,
		"certificate[description]": form.Description,
		"certificate[issued_on]":   form.IssuedOn,
		"certificate[expiry_date]": form.ExpiryDate,
		"certificate[course_id]":   form.CourseID,
		"certificate[employee_id]": form.EmployeeID,
	}
	document := ports.Attachment{
		Field:    "certificate[document]",
		Filename: documentFilename(form.Name),
		Content:  buf.Bytes(),
	}

	res := h.api.Post(r.Context(), "certificates", fields, document)
	if res != nil && res.StatusCode == http.StatusCreated {
		h.sessions.AddFlash(w, r, "success", "Certificate created")
	} else {
		h.sessions.AddFlash(w, r, "danger", certificateFailure(res))
	}
	http.Redirect(w, r, "/admin/certificates", http.StatusFound)
}

func (h *Handler) updateCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload := map[string]any{"certificate": map[string]string{
		"name":        r.FormValue("name"),
		"description": r.FormValue("description"),
		"issued_on":   r.FormValue("issued_on"),
		"expiry_date": r.FormValue("expiry_date"),
	}}

	res := h.api.Patch(r.Context(), "certificates/"+formatID(id), payload)
	if res != nil && res.StatusCode == http.StatusOK {
		h.sessions.AddFlash(w, r, "success", "Certificate updated")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to update certificate")
	}
	http.Redirect(w, r, "/admin/certificates", http.StatusFound)
}

func (h *Handler) deleteCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := h.api.Delete(r.Context(), "certificates/"+formatID(id))
	if res != nil && res.StatusCode == http.StatusNoContent {
		h.sessions.AddFlash(w, r, "info", "Certificate deleted")
	} else {
		h.sessions.AddFlash(w, r, "danger", "Failed to delete certificate")
	}
	http.Redirect(w, r, "/admin/certificates", http.StatusFound)
}

// readLogo pulls the optional logo upload. Anything that is not sniffable as
// an image is dropped here; the renderer still decode-gates whatever gets
// through, so a corrupt upload degrades to a logo-less certificate.
func (h *Handler) readLogo(r *http.Request) []byte {
	file, _, err := r.FormFile("logo")
	if err != nil {
		return nil
	}
	defer file.Close()
	b, err := io.ReadAll(file)
	if err != nil || len(b) == 0 {
		return nil
	}
	if !strings.HasPrefix(mimetype.Detect(b).String(), "image/") {
		return nil
	}
	return b
}

// certificateFailure turns a backend rejection into the flash text. The
// backend's validation errors come back as {"errors": [...]}; a single error
// passes through verbatim.
func certificateFailure(res *ports.Response) string {
	if res == nil {
		return "Failed to create certificate"
	}
	var body struct {
		Errors []string `json:"errors"`
	}
	if err := res.Decode(&body); err == nil && len(body.Errors) > 0 {
		return strings.Join(body.Errors, "; ")
	}
	return fmt.Sprintf("Certificate creation failed with status %d", res.StatusCode)
}

func documentFilename(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "_")
	if slug == "" {
		slug = "certificate"
	}
	return slug + ".pdf"
}
