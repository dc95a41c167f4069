package service

import (
	"fmt"
	"strings"

	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/pkg/money"
)

// ShiftReportMarkdown renders a shift report as Markdown for terminal display.
func ShiftReportMarkdown(report *entity.ShiftReport, currency string) string {
	amount := func(v float64) string { return money.Format(v, currency) }
	shift := report.Shift

	var b strings.Builder
	fmt.Fprintf(&b, "# Shift %s\n\n", shift.ID.String()[:8])
	fmt.Fprintf(&b, "**Status:** %s  \n", shift.Status)
	fmt.Fprintf(&b, "**Opened:** %s  \n", shift.StartTime.Format(receiptDateLayout))
	if shift.EndTime != nil {
		fmt.Fprintf(&b, "**Closed:** %s  \n", shift.EndTime.Format(receiptDateLayout))
	}
	fmt.Fprintf(&b, "**Sales:** %d\n\n", report.SalesCount())

	b.WriteString("## Cash\n\n| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Opening float | %s |\n", amount(shift.StartAmount))
	fmt.Fprintf(&b, "| Cash sales | %s |\n", amount(CashSales(report.Transactions)))
	fmt.Fprintf(&b, "| Cash in | %s |\n", amount(report.CashIn))
	fmt.Fprintf(&b, "| Cash out | %s |\n", amount(report.CashOut))
	fmt.Fprintf(&b, "| **Expected** | **%s** |\n", amount(report.ExpectedCash))
	if report.CountedCash != nil {
		fmt.Fprintf(&b, "| Counted | %s |\n", amount(*report.CountedCash))
	}
	if report.Discrepancy != nil {
		fmt.Fprintf(&b, "| **Difference** | **%s** |\n", amount(*report.Discrepancy))
	}
	fmt.Fprintf(&b, "\nDigital sales: **%s**\n", amount(report.DigitalTotal))

	if len(report.Movements) > 0 {
		b.WriteString("\n## Movements\n\n| Time | Type | Amount | Description |\n|---|---|---:|---|\n")
		for _, m := range report.Movements {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", m.CreatedAt.Format("15:04"), m.Type, amount(m.Amount), m.Description)
		}
	}

	if len(report.Transactions) > 0 {
		b.WriteString("\n## Sales\n\n| Ticket | Method | Total |\n|---|---|---:|\n")
		for _, t := range report.Transactions {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", t.TicketNo, t.PaymentMethod, amount(t.Total))
		}
	}
	return b.String()
}
