package service

import (
	"context"
	"fmt"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/printer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const receiptDateLayout = "2006-01-02 15:04"

// ReceiptService handles receipt formatting and thermal printing.
type ReceiptService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	header      entity.ReceiptHeader
	width       int
	printerType string
	log         *zap.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	header entity.ReceiptHeader,
	width int,
	printerType string,
	log *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		printer:     p,
		saleRepo:    saleRepo,
		header:      header,
		width:       width,
		printerType: printerType,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Name       string `json:"name"`
}

// PrintResult is what a print call returns: the receipt and the text that
// went to paper.
type PrintResult struct {
	Receipt *entity.Receipt `json:"receipt"`
	Preview string          `json:"preview"`
	Printed bool            `json:"printed"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.Available(ctx),
		Type:       s.printerType,
		Name:       s.printer.Name(),
	}
}

func money(cents int64) string {
	return billing.FromCents(cents).StringFixed(2)
}

// BuildReceipt turns a sale into its printable view.
func (s *ReceiptService) BuildReceipt(sale *entity.Sale) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:          s.header,
		InvoiceNo:       sale.InvoiceNo,
		Date:            sale.Date.Format(receiptDateLayout),
		Customer:        sale.CustomerName,
		PaymentType:     string(sale.PaymentType),
		Status:          sale.Status.String(),
		Items:           make([]entity.ReceiptItem, 0, len(sale.Details)),
		SubTotal:        money(sale.SubTotal),
		DiscountPercent: fmt.Sprintf("%.2f", sale.DiscountPercent),
		Discount:        money(sale.DiscountAmount),
		VATPercent:      fmt.Sprintf("%.2f", sale.VATPercent),
		VAT:             money(sale.VATAmount),
		Shipping:        money(sale.ShippingFee),
		GrandTotal:      money(sale.GrandTotal),
		Received:        money(sale.ReceivedAmount),
		Due:             money(sale.DueAmount),
		Return:          money(sale.ReturnAmount),
	}
	for _, d := range sale.Details {
		name := d.MedicineName
		if name == "" {
			name = "Medicine"
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  d.Quantity,
			UnitPrice: money(d.UnitPrice),
			Total:     money(d.Total),
		})
	}
	return receipt
}

// FormatReceipt lays a receipt out as an ESC/POS document.
func FormatReceipt(r *entity.Receipt, width int) *printer.Document {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.FontDouble).
		Line(r.Header.StoreName).
		Size(printer.FontNormal).
		Bold(false)
	if r.Header.Address != "" {
		doc.Line(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Linef("Tel: %s", r.Header.Phone)
	}

	doc.Align(printer.AlignLeft).
		Rule('-').
		Pair("Invoice:", r.InvoiceNo).
		Pair("Date:", r.Date)
	if r.Customer != "" {
		doc.Pair("Customer:", r.Customer)
	}
	if r.PaymentType != "" {
		doc.Pair("Payment:", r.PaymentType)
	}
	doc.Rule('-')

	for _, item := range r.Items {
		doc.Item(item.Name, item.Quantity, item.UnitPrice, item.Total)
	}
	doc.Rule('-')

	doc.Pair("Subtotal:", r.SubTotal)
	if r.Discount != "0.00" {
		doc.Pair(fmt.Sprintf("Discount (%s%%):", r.DiscountPercent), "-"+r.Discount)
	}
	if r.VAT != "0.00" {
		doc.Pair(fmt.Sprintf("VAT (%s%%):", r.VATPercent), r.VAT)
	}
	if r.Shipping != "0.00" {
		doc.Pair("Shipping:", r.Shipping)
	}
	doc.Bold(true).
		Pair("TOTAL:", r.GrandTotal).
		Bold(false).
		Pair("Received:", r.Received)
	if r.Due != "0.00" {
		doc.Pair("Due:", r.Due)
	}
	if r.Return != "0.00" {
		doc.Pair("Change:", r.Return)
	}

	doc.Rule('-').
		Align(printer.AlignCenter).
		Line("Thank you. Get well soon!").
		Align(printer.AlignLeft).
		Feed(3).
		Cut()

	return doc
}

func (s *ReceiptService) loadSale(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// PreviewSaleReceipt renders a sale's receipt without printing it.
func (s *ReceiptService) PreviewSaleReceipt(ctx context.Context, saleID uuid.UUID) (*PrintResult, error) {
	sale, err := s.loadSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipt := s.BuildReceipt(sale)
	return &PrintResult{Receipt: receipt, Preview: FormatReceipt(receipt, s.width).Text()}, nil
}

// PrintSaleReceipt fetches a sale (with details) and prints its receipt.
func (s *ReceiptService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*PrintResult, error) {
	sale, err := s.loadSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipt := s.BuildReceipt(sale)
	return s.print(ctx, receipt, sale.InvoiceNo)
}

// TestPrint sends a test page to the printer.
func (s *ReceiptService) TestPrint(ctx context.Context) (*PrintResult, error) {
	receipt := &entity.Receipt{
		Header:      s.header,
		InvoiceNo:   "TEST-001",
		Date:        time.Now().Format(receiptDateLayout),
		PaymentType: "cash",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: "10.00", Total: "10.00"},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: "5.00", Total: "10.00"},
		},
		SubTotal:        "20.00",
		DiscountPercent: "0.00",
		Discount:        "0.00",
		VATPercent:      "0.00",
		VAT:             "0.00",
		Shipping:        "0.00",
		GrandTotal:      "20.00",
		Received:        "20.00",
		Due:             "0.00",
		Return:          "0.00",
	}
	return s.print(ctx, receipt, receipt.InvoiceNo)
}

func (s *ReceiptService) print(ctx context.Context, receipt *entity.Receipt, ref string) (*PrintResult, error) {
	doc := FormatReceipt(receipt, s.width)
	result := &PrintResult{Receipt: receipt, Preview: doc.Text()}
	if err := s.printer.Print(ctx, doc.Bytes()); err != nil {
		s.log.Error("printer error", zap.String("ref", ref), zap.String("printer", s.printer.Name()), zap.Error(err))
		return result, apperror.Wrap(err, "Failed to print receipt")
	}
	result.Printed = true
	return result, nil
}
