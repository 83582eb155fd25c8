package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/creditvision/creditvision-cli/internal/model"
)

var historyHeader = []string{
	"ID", "Created At", "Occupation", "Monthly Income", "Score", "Rating",
	"Location Stability", "Mobile Usage", "UPI Transactions",
	"Tier", "Principal", "Rate % p.a.", "Term Months", "EMI", "Total Interest",
	"Rationale Source",
}

// WriteXLSX renders recommendation history as a single-sheet workbook.
func WriteXLSX(w io.Writer, recs []model.Recommendation) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Recommendations")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range historyHeader {
		header.AddCell().Value = h
	}

	for i := range recs {
		rec := &recs[i]
		r := &rec.Result
		row := sheet.AddRow()
		row.AddCell().Value = rec.ID
		row.AddCell().Value = rec.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		row.AddCell().Value = string(r.Applicant.Occupation)
		row.AddCell().SetFloat(r.Applicant.Income)
		row.AddCell().SetInt(int(r.Score))
		row.AddCell().Value = r.Score.Rating()
		row.AddCell().SetFloatWithFormat(r.Features.LocationStability, "0.00")
		row.AddCell().SetFloatWithFormat(r.Features.MobileUsageScore, "0.0")
		row.AddCell().SetInt(r.Features.UPITransactionCount)
		row.AddCell().Value = r.Offer.LenderTier
		row.AddCell().SetFloat(r.Offer.Principal)
		row.AddCell().SetFloatWithFormat(r.Offer.AnnualRatePercent, "0.00")
		row.AddCell().SetInt(r.Offer.TermMonths)
		row.AddCell().SetFloat(r.Offer.EMI)
		row.AddCell().SetFloat(r.Offer.TotalInterest)
		row.AddCell().Value = r.RationaleSource
	}

	return eris.Wrap(file.Write(w), "xlsx: write workbook")
}
