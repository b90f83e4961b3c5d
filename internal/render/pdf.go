package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/storage"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// Default theme color when the tenant design has none (or a bad hex value)
const defaultThemeColor = "#114e9e"

const logoFetchTimeout = 5 * time.Second

// Data is everything the renderer needs from a challan. Unlike the tracking
// payload the document is private to the customer, so contact fields appear.
type Data struct {
	ChallanNo       string
	CustomerName    string
	Email           string
	ContactNumber   string
	City            string
	SerialNumber    string
	Problem         string
	Accessories     []string
	Warranty        string
	DispatchThrough string
	EmployeeName    string
	Items           []domain.Item
	Status          string
	GeneratedOn     time.Time
}

// Renderer produces the durable challan document from ticket data and the
// tenant's merged design
type Renderer struct {
	store  storage.Store
	client *http.Client
	log    *logger.Logger
}

// NewRenderer creates a new Renderer
func NewRenderer(store storage.Store, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Get()
	}
	return &Renderer{
		store:  store,
		client: &http.Client{Timeout: logoFetchTimeout},
		log:    log,
	}
}

// Render builds the PDF and stores it, returning the artifact location.
// Errors are for the caller to absorb: a challan without a document stays
// fully usable.
func (r *Renderer) Render(ctx context.Context, data Data, design map[string]interface{}) (string, error) {
	red, green, blue := parseThemeColor(domain.DesignString(design, "theme_color", defaultThemeColor))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetAutoPageBreak(true, 15)

	// Watermark is derived from status at render time, never stored
	if strings.EqualFold(data.Status, domain.StatusDelivered) {
		pdf.SetTextColor(200, 200, 200)
		pdf.SetFont("Arial", "B", 60)
		pdf.TransformBegin()
		pdf.TransformRotate(45, 105, 150)
		pdf.Text(30, 150, "DELIVERED")
		pdf.TransformEnd()
		pdf.SetTextColor(0, 0, 0)
	}

	r.drawLogo(ctx, pdf, domain.DesignString(design, "logo_url", ""))

	// Header beside the logo
	pdf.SetXY(40, 10)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(red, green, blue)
	pdf.CellFormat(0, 8, domain.DesignString(design, "company_name", ""), "", 1, "", false, 0, "")
	pdf.SetX(40)
	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, domain.DesignString(design, "tagline", ""), "", 1, "", false, 0, "")
	pdf.SetX(40)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, domain.DesignString(design, "company_address", ""), "", 1, "", false, 0, "")
	pdf.SetX(40)
	pdf.CellFormat(0, 6, domain.DesignString(design, "company_phone", ""), "", 1, "", false, 0, "")
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(red, green, blue)
	pdf.CellFormat(0, 8, fmt.Sprintf("Challan No: %s", data.ChallanNo), "", 1, "", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on: %s", data.GeneratedOn.Format("02/01/2006, 03:04 PM")), "", 1, "", false, 0, "")
	if data.EmployeeName != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Prepared by: %s", data.EmployeeName), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	r.sectionTitle(pdf, "Customer Details:", red, green, blue)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Customer Name: %s", orDash(data.CustomerName)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Email: %s", orDash(data.Email)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Contact Number: %s", orDash(data.ContactNumber)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("City: %s", orDash(data.City)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Serial Number: %s", orDash(data.SerialNumber)), "", 1, "", false, 0, "")
	pdf.Ln(3)

	r.sectionTitle(pdf, "Problem:", red, green, blue)
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 7, orDash(data.Problem), "", "", false)
	pdf.Ln(3)

	r.sectionTitle(pdf, "Accessories:", red, green, blue)
	pdf.SetFont("Arial", "", 11)
	accessories := "-"
	if len(data.Accessories) > 0 {
		accessories = strings.Join(data.Accessories, ", ")
	}
	pdf.MultiCell(0, 7, accessories, "", "", false)
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Warranty: %s", orDash(data.Warranty)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Dispatch Through: %s", orDash(data.DispatchThrough)), "", 1, "", false, 0, "")
	pdf.Ln(3)

	r.sectionTitle(pdf, "Items:", red, green, blue)
	pdf.SetFont("Arial", "", 11)
	if len(data.Items) == 0 {
		pdf.CellFormat(0, 7, "No items listed.", "", 1, "", false, 0, "")
	} else {
		for i, item := range data.Items {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s (Qty: %d)", i+1, item.Description, qty), "", 1, "", false, 0, "")
		}
	}
	pdf.Ln(6)

	if terms := domain.DesignString(design, "terms_conditions", ""); terms != "" {
		r.sectionTitle(pdf, "Terms & Conditions:", red, green, blue)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, terms, "", "", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 7, domain.DesignString(design, "footer_note", "Thank you for your business!"), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	location, err := r.store.Save(storage.CategoryPDFs, data.ChallanNo+".pdf", buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return location, nil
}

func (r *Renderer) sectionTitle(pdf *fpdf.Fpdf, title string, red, green, blue int) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(red, green, blue)
	pdf.CellFormat(0, 8, title, "", 1, "", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawLogo places the tenant logo at the top left. A remote logo that cannot
// be fetched is skipped; the document renders without it.
func (r *Renderer) drawLogo(ctx context.Context, pdf *fpdf.Fpdf, logoURL string) {
	if logoURL == "" {
		return
	}

	if strings.HasPrefix(logoURL, "http://") || strings.HasPrefix(logoURL, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
		if err != nil {
			return
		}
		resp, err := r.client.Do(req)
		if err != nil {
			r.log.Warn("logo fetch failed", zap.String("logo_url", logoURL), zap.Error(err))
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			r.log.Warn("logo fetch rejected", zap.String("logo_url", logoURL), zap.Int("status", resp.StatusCode))
			return
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
		if err != nil {
			return
		}
		imageType := imageTypeOf(body)
		if imageType == "" {
			return
		}
		opts := fpdf.ImageOptions{ImageType: imageType}
		pdf.RegisterImageOptionsReader("tenant-logo", opts, bytes.NewReader(body))
		pdf.ImageOptions("tenant-logo", 10, 8, 25, 0, false, opts, 0, "")
		return
	}

	if path, ok := r.store.Resolve(logoURL); ok {
		pdf.ImageOptions(path, 10, 8, 25, 0, false, fpdf.ImageOptions{}, 0, "")
	}
}

func imageTypeOf(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

func parseThemeColor(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 17, 78, 158
	}
	red, err1 := strconv.ParseInt(hex[0:2], 16, 32)
	green, err2 := strconv.ParseInt(hex[2:4], 16, 32)
	blue, err3 := strconv.ParseInt(hex[4:6], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return 17, 78, 158
	}
	return int(red), int(green), int(blue)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
