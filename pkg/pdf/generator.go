package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Party identifies one side of a trade document
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country"`
}

// LineItem is one goods line on an invoice or packing list
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// DocumentData carries everything a trade document renders
type DocumentData struct {
	Title        string            `json:"title"`
	Reference    string            `json:"reference"`
	Date         time.Time         `json:"date"`
	Issuer       Party             `json:"issuer"`
	Counterparty Party             `json:"counterparty"`
	Lines        []LineItem        `json:"lines"`
	Currency     string            `json:"currency"`
	Meta         map[string]string `json:"meta,omitempty"`
	Notes        string            `json:"notes,omitempty"`
}

// Generator renders trade documents to PDF
type Generator interface {
	Generate(ctx context.Context, data DocumentData) (io.ReadSeeker, error)
}

// Options configures PDF rendering
type Options struct {
	PageSize       string  `json:"page_size"`
	FontFamily     string  `json:"font_family"`
	FontSize       float64 `json:"font_size"`
	TitleFontSize  float64 `json:"title_font_size"`
	HeaderColor    Color   `json:"header_color"`
	AlternateRows  bool    `json:"alternate_rows"`
	AlternateColor Color   `json:"alternate_color"`
	Margins        Margins `json:"margins"`
}

// Color represents an RGB color
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Margins represents page margins in millimeters
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultOptions returns the standard portal document style
func DefaultOptions() Options {
	return Options{
		PageSize:       "A4",
		FontFamily:     "Arial",
		FontSize:       10,
		TitleFontSize:  16,
		HeaderColor:    Color{R: 30, G: 64, B: 175},
		AlternateRows:  true,
		AlternateColor: Color{R: 242, G: 242, B: 242},
		Margins:        Margins{Left: 15, Right: 15, Top: 20, Bottom: 20},
	}
}

type generator struct {
	options Options
}

// NewGenerator creates a gofpdf-backed trade document generator
func NewGenerator(options Options) Generator {
	return &generator{options: options}
}

func (g *generator) Generate(_ context.Context, data DocumentData) (io.ReadSeeker, error) {
	opts := g.options
	doc := gofpdf.New("P", "mm", opts.PageSize, "")
	doc.SetMargins(opts.Margins.Left, opts.Margins.Top, opts.Margins.Right)
	doc.SetAutoPageBreak(true, opts.Margins.Bottom)
	doc.AddPage()

	g.renderHeader(doc, data)
	g.renderParties(doc, data)
	g.renderLines(doc, data)
	g.renderFooter(doc, data)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", data.Title, err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}

func (g *generator) renderHeader(doc *gofpdf.Fpdf, data DocumentData) {
	opts := g.options
	doc.SetFont(opts.FontFamily, "B", opts.TitleFontSize)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")

	doc.SetFont(opts.FontFamily, "", opts.FontSize)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 6, fmt.Sprintf("Ref: %s", data.Reference), "", 1, "C", false, 0, "")

	date := data.Date
	if date.IsZero() {
		date = time.Now()
	}
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")), "", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (g *generator) renderParties(doc *gofpdf.Fpdf, data DocumentData) {
	opts := g.options
	pageWidth, _ := doc.GetPageSize()
	half := (pageWidth - opts.Margins.Left - opts.Margins.Right) / 2

	doc.SetFont(opts.FontFamily, "B", opts.FontSize)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(half, 6, "From", "", 0, "L", false, 0, "")
	doc.CellFormat(half, 6, "To", "", 1, "L", false, 0, "")

	doc.SetFont(opts.FontFamily, "", opts.FontSize)
	for _, pair := range [][2]string{
		{data.Issuer.Name, data.Counterparty.Name},
		{data.Issuer.Address, data.Counterparty.Address},
		{data.Issuer.Country, data.Counterparty.Country},
	} {
		doc.CellFormat(half, 5, pair[0], "", 0, "L", false, 0, "")
		doc.CellFormat(half, 5, pair[1], "", 1, "L", false, 0, "")
	}
	doc.Ln(6)
}

func (g *generator) renderLines(doc *gofpdf.Fpdf, data DocumentData) {
	opts := g.options
	pageWidth, _ := doc.GetPageSize()
	available := pageWidth - opts.Margins.Left - opts.Margins.Right
	widths := []float64{available * 0.44, available * 0.12, available * 0.10, available * 0.16, available * 0.18}
	labels := []string{"Description", "Qty", "Unit", "Unit Price", "Amount"}

	doc.SetFont(opts.FontFamily, "B", opts.FontSize)
	doc.SetFillColor(opts.HeaderColor.R, opts.HeaderColor.G, opts.HeaderColor.B)
	doc.SetTextColor(255, 255, 255)
	for i, label := range labels {
		doc.CellFormat(widths[i], 8, label, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont(opts.FontFamily, "", opts.FontSize)
	doc.SetTextColor(0, 0, 0)
	total := 0.0
	for i, line := range data.Lines {
		fill := opts.AlternateRows && i%2 == 1
		if fill {
			doc.SetFillColor(opts.AlternateColor.R, opts.AlternateColor.G, opts.AlternateColor.B)
		}
		doc.CellFormat(widths[0], 7, line.Description, "1", 0, "L", fill, 0, "")
		doc.CellFormat(widths[1], 7, fmt.Sprintf("%.2f", line.Quantity), "1", 0, "R", fill, 0, "")
		doc.CellFormat(widths[2], 7, line.Unit, "1", 0, "C", fill, 0, "")
		doc.CellFormat(widths[3], 7, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", fill, 0, "")
		doc.CellFormat(widths[4], 7, fmt.Sprintf("%.2f", line.Amount), "1", 1, "R", fill, 0, "")
		total += line.Amount
	}

	doc.SetFont(opts.FontFamily, "B", opts.FontSize)
	doc.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8, fmt.Sprintf("Total (%s)", data.Currency), "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[4], 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (g *generator) renderFooter(doc *gofpdf.Fpdf, data DocumentData) {
	opts := g.options
	if len(data.Meta) > 0 {
		doc.SetFont(opts.FontFamily, "", opts.FontSize-1)
		doc.SetTextColor(80, 80, 80)
		for key, value := range data.Meta {
			doc.CellFormat(0, 5, fmt.Sprintf("%s: %s", key, value), "", 1, "L", false, 0, "")
		}
		doc.Ln(2)
	}
	if data.Notes != "" {
		doc.SetFont(opts.FontFamily, "I", opts.FontSize-1)
		doc.SetTextColor(100, 100, 100)
		doc.MultiCell(0, 5, data.Notes, "", "L", false)
	}
}
