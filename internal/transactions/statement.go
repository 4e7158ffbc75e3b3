package transactions

import (
	"bytes"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/ledger-api/internal/money"
)

const statementMaxRows = 500

type Statement struct {
	SessionID string
	Items     []Transaction
	Credits   decimal.Decimal
	Debits    decimal.Decimal
	Balance   decimal.Decimal
}

var statementCols = []float64{34, 96, 30, 22}

// PDF renders the statement as an A4 document.
func (st Statement) PDF(generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ledger Statement", false)
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Ledger Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Session: "+maskID(st.SessionID))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated: "+generatedAt.UTC().Format(time.RFC3339))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60, 61, 61}
	pdf.CellFormat(sumW[0], 10, "Credits", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Debits", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.Format(st.Credits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.Format(st.Debits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.Format(st.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	tableHeader(pdf)

	for i, it := range st.Items {
		if i >= statementMaxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated, too many rows", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			tableHeader(pdf)
		}

		pdf.CellFormat(statementCols[0], 8, it.CreatedAt.UTC().Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")

		x, y := pdf.GetX(), pdf.GetY()
		pdf.MultiCell(statementCols[1], 8, tr(trimTo(it.Title, 90)), "1", "L", false)
		usedH := pdf.GetY() - y
		pdf.SetXY(x+statementCols[1], y)

		pdf.CellFormat(statementCols[2], usedH, money.Format(it.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(statementCols[3], usedH, shortID(it.ID.String()), "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(statementCols[0], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(statementCols[1], 8, "TITLE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(statementCols[2], 8, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(statementCols[3], 8, "ID", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
