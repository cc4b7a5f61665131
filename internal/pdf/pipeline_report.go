package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GeneratePipelineReport(data PipelineReportData) ([]byte, error)
	GenerateLeadTrail(data LeadTrailData) ([]byte, error)
}

type ReportGenerator struct {
	FontPath string // путь до TTF с кириллицей; пусто — Helvetica
	fontName string
}

type StageRow struct {
	Name   string
	Active bool
	Count  int
}

type PipelineReportData struct {
	GeneratedAt time.Time
	Rows        []StageRow
	Unstaged    int // лиды без этапа
	Lost        int
	Won         int
}

type TrailEntry struct {
	StageName string
	Text      string
	CreatedAt time.Time
	DueDate   *time.Time
}

type LeadTrailData struct {
	LeadTitle   string
	GeneratedAt time.Time
	Entries     []TrailEntry
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	return &ReportGenerator{
		FontPath: fontPath,
		fontName: "Helvetica",
	}
}

func (g *ReportGenerator) newDoc() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	if g.FontPath != "" {
		g.fontName = "Custom"
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	}
	return pdf
}

// GeneratePipelineReport — сводка воронки: лиды по этапам + терминальные.
func (g *ReportGenerator) GeneratePipelineReport(data PipelineReportData) ([]byte, error) {
	pdf := g.newDoc()
	pdf.SetTitle("Pipeline report", false)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "PIPELINE REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, data.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Stages")
	total := data.Unstaged
	for _, row := range data.Rows {
		total += row.Count
	}
	for _, row := range data.Rows {
		name := row.Name
		if !row.Active {
			name += " (inactive)"
		}
		g.kvLine(pdf, name, fmt.Sprintf("%d", row.Count))
	}
	if data.Unstaged > 0 {
		g.kvLine(pdf, "Not in pipeline", fmt.Sprintf("%d", data.Unstaged))
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Totals")
	g.kvLine(pdf, "Open leads", fmt.Sprintf("%d", total))
	g.kvLine(pdf, "Won", fmt.Sprintf("%d", data.Won))
	g.kvLine(pdf, "Lost", fmt.Sprintf("%d", data.Lost))

	g.pageFooter(pdf)
	return output(pdf)
}

// GenerateLeadTrail — аудит переходов одного лида: ремарки по этапам.
func (g *ReportGenerator) GenerateLeadTrail(data LeadTrailData) ([]byte, error) {
	pdf := g.newDoc()
	pdf.SetTitle("Lead trail", false)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, data.LeadTitle, "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, data.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	for _, e := range data.Entries {
		pdf.SetFont(g.fontName, "B", 11)
		head := fmt.Sprintf("%s — %s", e.CreatedAt.Format("02.01.2006 15:04"), e.StageName)
		if e.DueDate != nil {
			head += fmt.Sprintf(" (due %s)", e.DueDate.Format("02.01.2006"))
		}
		pdf.CellFormat(0, 6, head, "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, e.Text, "", "L", false)
		pdf.Ln(2)
	}

	g.pageFooter(pdf)
	return output(pdf)
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(90, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) pageFooter(pdf *gofpdf.Fpdf) {
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("%d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
