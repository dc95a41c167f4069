package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/money"
	"github.com/sangkips/posgo-api/pkg/printer"
	"go.uber.org/zap"
)

const receiptDateLayout = "2006-01-02 15:04"

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer  printer.Printer
	txnRepo  repository.TransactionRepository
	shifts   *ShiftService
	settings *SettingsService
	width    int
	logger   *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	txnRepo repository.TransactionRepository,
	shifts *ShiftService,
	settings *SettingsService,
	width int,
	logger *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:  p,
		txnRepo:  txnRepo,
		shifts:   shifts,
		settings: settings,
		width:    width,
		logger:   logger,
	}
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) printer.Status {
	return s.printer.Status(ctx)
}

// PrintReceipt prints the ticket of a finalized sale.
// The receipt is returned even when printing fails so the client can render it.
func (s *PrinterService) PrintReceipt(ctx context.Context, txnID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.txnRepo.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceipt(txn, settings)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.logger.Error("printer error", zap.String("ticket_no", txn.TicketNo), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// PrintShiftReport prints the reconciliation of a shift.
func (s *PrinterService) PrintShiftReport(ctx context.Context, shiftID uuid.UUID) (*entity.ShiftReport, error) {
	report, err := s.shifts.GetReport(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatShiftReport(report, settings, s.width)); err != nil {
		s.logger.Error("printer error", zap.String("shift_id", shiftID.String()), zap.Error(err))
		return report, fmt.Errorf("failed to print shift report: %w", err)
	}
	return report, nil
}

// TestPrint sends a sample ticket to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:   entity.ReceiptHeader{StoreName: "PRINTER TEST"},
		TicketNo: "TEST-001",
		Date:     "-",
		Currency: money.DefaultCurrency,
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		Tenders:  []entity.ReceiptTender{{Method: "cash", Amount: 20.00}},
		SubTotal: 20.00,
		Total:    20.00,
		Paid:     20.00,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// BuildReceipt composes the printable ticket of a sale.
func BuildReceipt(txn *entity.Transaction, settings *entity.StoreSettings) *entity.Receipt {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: settings.StoreName,
			Address:   settings.Address,
			Phone:     settings.Phone,
			TaxID:     settings.RUC,
		},
		TicketNo: txn.TicketNo,
		Date:     txn.CreatedAt.Format(receiptDateLayout),
		Customer: txn.CustomerName,
		Currency: settings.Currency,
		Items:    make([]entity.ReceiptItem, 0, len(txn.Items)),
		Tenders:  make([]entity.ReceiptTender, 0, len(txn.Payments)),
		SubTotal: txn.Subtotal,
		Discount: txn.Discount,
		Tax:      txn.Tax,
		TaxRate:  settings.TaxRate,
		Total:    txn.Total,
		Paid:     txn.AmountPaid,
		Change:   txn.Change,
	}

	for _, item := range txn.Items {
		name := item.Name
		if item.VariantName != "" {
			name += " (" + item.VariantName + ")"
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Total:     item.LineTotal,
		})
	}
	for _, p := range txn.Payments {
		receipt.Tenders = append(receipt.Tenders, entity.ReceiptTender{
			Method: strings.ToUpper(p.Method.String()),
			Amount: p.Amount,
		})
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	amount := func(v float64) string { return money.Format(v, r.Currency) }

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.TaxID != "" {
		doc.TextF("RUC %s", r.Header.TaxID)
	}
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Ticket:", r.TicketNo).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money.Plain(item.UnitPrice), money.Plain(item.Total))
		if item.Discount > 0 {
			doc.KeyValue("  discount", "-"+money.Plain(item.Discount*float64(item.Quantity)))
		}
	}

	doc.Separator('-').
		KeyValue("Subtotal:", amount(r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue("Discount:", "-"+amount(r.Discount))
	}
	doc.KeyValue(fmt.Sprintf("Tax (%s%%):", money.Plain(r.TaxRate*100)), amount(r.Tax)).
		SetBold(true).
		KeyValue("TOTAL:", amount(r.Total)).
		SetBold(false).
		Separator('-')

	for _, t := range r.Tenders {
		doc.KeyValue(t.Method, amount(t.Amount))
	}
	if r.Change > 0 {
		doc.KeyValue("Change:", amount(r.Change))
	}

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you for your purchase!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatShiftReport converts a shift report into ESC/POS bytes.
func FormatShiftReport(report *entity.ShiftReport, settings *entity.StoreSettings, width int) []byte {
	doc := printer.NewDocument(width)
	amount := func(v float64) string { return money.Format(v, settings.Currency) }
	shift := report.Shift

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(settings.StoreName).
		Text("SHIFT REPORT").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('=').
		KeyValue("Status:", shift.Status.String()).
		KeyValue("Opened:", shift.StartTime.Format(receiptDateLayout))
	if shift.EndTime != nil {
		doc.KeyValue("Closed:", shift.EndTime.Format(receiptDateLayout))
	}
	doc.KeyValue("Sales:", fmt.Sprintf("%d", report.SalesCount())).
		Separator('-').
		KeyValue("Opening float", amount(shift.StartAmount)).
		KeyValue("Cash sales", amount(CashSales(report.Transactions))).
		KeyValue("Cash in", amount(report.CashIn)).
		KeyValue("Cash out", "-"+amount(report.CashOut)).
		SetBold(true).
		KeyValue("Expected cash", amount(report.ExpectedCash)).
		SetBold(false)

	if report.CountedCash != nil {
		doc.KeyValue("Counted cash", amount(*report.CountedCash))
	}
	if report.Discrepancy != nil {
		doc.SetBold(true).
			KeyValue("Difference", amount(*report.Discrepancy)).
			SetBold(false)
	}
	doc.Separator('-').
		KeyValue("Digital sales", amount(report.DigitalTotal))

	if len(report.Movements) > 0 {
		doc.Separator('-')
		for _, m := range report.Movements {
			doc.KeyValue(fmt.Sprintf("%s %s", m.CreatedAt.Format("15:04"), m.Type), amount(m.Amount))
			if m.Description != "" {
				doc.Text("  " + m.Description)
			}
		}
	}

	doc.FeedLines(3).
		PartialCut()
	return doc.Bytes()
}
