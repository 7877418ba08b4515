// Package issuance renders the downloadable PDF ticket. Rendering is pure: no I/O and
// no clock, so the same ticket always produces the same bytes.
package issuance

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	Banner = "Ticketify - Event Ticket"

	qrImageName = "ticket-qr"
	qrPixels    = 512
	// Byte-mode capacity of a version 40 symbol at the Medium recovery level.
	maxQRPayload = 2331
)

// documentDate is stamped into every PDF in place of the wall clock.
var documentDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type TicketDocument struct {
	TicketID uuid.UUID
	Title    string
	Date     time.Time
	Location string
	Price    decimal.Decimal
}

func DocumentFor(t *model.TicketWithEvent) TicketDocument {
	return TicketDocument{
		TicketID: t.ID,
		Title:    t.EventTitle,
		Date:     t.EventDate.Time,
		Location: t.EventLocation,
		Price:    t.UnitPrice,
	}
}

// QRPayload is the string encoded into the scannable code.
func QRPayload(doc TicketDocument) string {
	if doc.TicketID == uuid.Nil {
		return ""
	}
	return doc.TicketID.String()
}

// EncodeQR returns the PNG bytes of a QR code for payload.
func EncodeQR(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty QR payload", apperrors.ErrEncodingFailure)
	}
	if len(payload) > maxQRPayload {
		return nil, fmt.Errorf("%w: QR payload of %d bytes exceeds %d", apperrors.ErrEncodingFailure, len(payload), maxQRPayload)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEncodingFailure, err)
	}
	return png, nil
}

// Render lays out a single A4 page: banner, four metadata lines, ticket id and QR code.
func Render(doc TicketDocument) ([]byte, error) {
	png, err := EncodeQR(QRPayload(doc))
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor("Ticketify", false)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 20, Banner)

	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(20, 40, tr("Event: "+doc.Title))
	pdf.Text(20, 50, tr("Date: "+doc.Date.Format("Mon Jan 02 2006")))
	pdf.Text(20, 60, tr("Location: "+doc.Location))
	pdf.Text(20, 70, tr("Price: €"+doc.Price.StringFixed(2)))
	pdf.Text(20, 80, "Ticket ID: "+QRPayload(doc))

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImageName, opt, bytes.NewReader(png))
	pdf.ImageOptions(qrImageName, 20, 90, 50, 50, false, opt, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: render pdf: %v", apperrors.ErrEncodingFailure, err)
	}
	return buf.Bytes(), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N} ._-]+`)

// Filename is "<title>-ticket.pdf" keeping only letters, digits, spaces and ._- from the title.
func Filename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, ""), " .")
	if name == "" {
		name = "event"
	}
	return name + "-ticket.pdf"
}
