package domain

// All records below are owned by the backend service. The portal holds
// request-scoped copies only: fetched fresh per request, never cached, and any
// edits are submitted straight back. Field names mirror the backend's JSON.

// Employee is both a directory record and, when stored in the session, the
// authenticated user.
type Employee struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	HireDate   string `json:"hire_date"`
	Gender     string `json:"gender"`
	Admin      bool   `json:"admin"`
}

// FullName returns "First Last" for display and certificate issuance.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Course struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Capacity        int    `json:"capacity"`
	Level           string `json:"level"`
	Department      string `json:"department"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	YoutubeURL      string `json:"youtube_url"`
}

// Enrollment links an employee to a course. The embedded records carry at
// least their ids; the backend enforces that the references are valid.
type Enrollment struct {
	ID       int64    `json:"id"`
	Employee Employee `json:"employee"`
	Course   Course   `json:"course"`
	Status   string   `json:"status"`
	Progress int      `json:"progress"`
}

type Certificate struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IssuedOn    string   `json:"issued_on"`
	ExpiryDate  string   `json:"expiry_date"`
	Course      Course   `json:"course"`
	Employee    Employee `json:"employee"`
	DocumentURL string   `json:"document_url"`
}

// CertificateData is the input to the certificate renderer. Logo is the raw
// bytes of an optional uploaded image; undecodable bytes are ignored at
// render time rather than rejected.
type CertificateData struct {
	Name            string
	Description     string
	IssuerFirstName string
	IssuerLastName  string
	IssuedOn        string
	ExpiryDate      string
	Logo            []byte
}
