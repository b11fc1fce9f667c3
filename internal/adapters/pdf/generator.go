// Package pdf renders the printable certificate artifact: a single landscape
// page with an optional logo, a centered title and description, and an
// issuer/date footer. Rendering is a pure transformation of its inputs — the
// document dates are pinned so identical inputs produce byte-identical
// output.
package pdf

import (
	"bytes"
	"image"
	"io"
	"time"

	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/training-portal/internal/domain"
)

// logoBox is the square bounding box (mm) the logo is scaled into.
const logoBox = 30.0

// pinnedDate keeps the embedded PDF metadata deterministic.
var pinnedDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render writes the certificate document to w. Required-field validation is
// the caller's responsibility; an undecodable logo is silently omitted.
func (Renderer) Render(data *domain.CertificateData, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(pinnedDate)
	pdf.SetModificationDate(pinnedDate)
	pdf.SetCatalogSort(true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// ── Border ───────────────────────────────────────────────────────────────
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 30, 30)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(13, 13, pageW-26, pageH-26, "D")

	y := 28.0

	// ── Logo (optional) ──────────────────────────────────────────────────────
	if lw, lh, name, ok := registerLogo(pdf, data.Logo); ok {
		pdf.ImageOptions(name, (pageW-lw)/2, y, lw, lh, false, fpdf.ImageOptions{}, 0, "")
		y += logoBox + 6
	}

	// ── Title block ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(20, y)
	pdf.CellFormat(pageW-40, 14, data.Name, "", 1, "C", false, 0, "")
	y += 20

	// ── Description block ────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(30, y)
	pdf.MultiCell(pageW-60, 7, data.Description, "", "C", false)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(30, 30, 30)
	footerY := pageH - 52
	lines := []string{
		"Issued by: " + data.IssuerFirstName + " " + data.IssuerLastName,
		"Issued On: " + data.IssuedOn,
		"Expiry Date: " + data.ExpiryDate,
	}
	for i, line := range lines {
		pdf.SetXY(20, footerY+float64(i)*6.5)
		pdf.CellFormat(pageW-40, 6, line, "", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

// registerLogo decodes the raw logo bytes, registers them with the document,
// and returns the drawing size fitted to the logoBox square. A missing or
// undecodable logo reports ok=false and is skipped — the certificate itself
// must never fail because of a bad logo upload. The decoded image is
// re-encoded as PNG so registration cannot trip on encodings fpdf's own
// parsers reject (interlaced PNGs and the like).
func registerLogo(pdf *fpdf.Fpdf, logo []byte) (w, h float64, name string, ok bool) {
	if len(logo) == 0 {
		return 0, 0, "", false
	}
	img, _, err := image.Decode(bytes.NewReader(logo))
	if err != nil {
		return 0, 0, "", false
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0, 0, "", false
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, 0, "", false
	}

	w, h = logoBox, logoBox
	if bounds.Dx() >= bounds.Dy() {
		h = logoBox * float64(bounds.Dy()) / float64(bounds.Dx())
	} else {
		w = logoBox * float64(bounds.Dx()) / float64(bounds.Dy())
	}

	pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: "png"}, &buf)
	return w, h, "logo", true
}
