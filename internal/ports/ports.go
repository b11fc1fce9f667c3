package ports

import (
	"context"
	"encoding/json"
	"io"

	"github.com/csg33k/training-portal/internal/domain"
)

// Attachment is a file part for multipart submissions. Field carries the
// backend's flattened parameter name, e.g. "certificate[document]".
type Attachment struct {
	Field    string
	Filename string
	Content  []byte
}

// Response is the outcome of a write call against the backend. A nil
// *Response means the transport failed; the failure has already been logged
// and must surface to the user as a flash message, never as an error.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// BackendClient defines the outbound REST operations against the backend
// service. Every call appends the current employee's id (taken from ctx) as
// an employee_id query parameter when present.
type BackendClient interface {
	// Get decodes a 200 response into out and reports true. Any other
	// status, transport error, or decode failure reports false; nothing is
	// propagated.
	Get(ctx context.Context, path string, out any) bool

	// Post sends payload as a JSON body, or — when attachments are present —
	// as a multipart form where payload must be the map of flattened string
	// fields.
	Post(ctx context.Context, path string, payload any, files ...Attachment) *Response

	Patch(ctx context.Context, path string, payload any) *Response

	// Delete issues a DELETE; a 204 status signals success.
	Delete(ctx context.Context, path string) *Response
}

// CertificateRenderer produces the printable certificate artifact.
type CertificateRenderer interface {
	// Render writes a single-page PDF for data to w. Required-field
	// validation happens in the caller; Render only degrades gracefully on
	// an undecodable logo.
	Render(data *domain.CertificateData, w io.Writer) error
}
