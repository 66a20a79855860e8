package entity

// ReceiptHeader is the pharmacy block printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// Receipt is a printable view of a sale, composed at print time. Amounts
// are preformatted to two decimals.
type Receipt struct {
	Header          ReceiptHeader `json:"header"`
	InvoiceNo       string        `json:"invoice_no"`
	Date            string        `json:"date"`
	Customer        string        `json:"customer,omitempty"`
	PaymentType     string        `json:"payment_type"`
	Status          string        `json:"status"`
	Items           []ReceiptItem `json:"items"`
	SubTotal        string        `json:"sub_total"`
	DiscountPercent string        `json:"discount_percent"`
	Discount        string        `json:"discount"`
	VATPercent      string        `json:"vat_percent"`
	VAT             string        `json:"vat"`
	Shipping        string        `json:"shipping"`
	GrandTotal      string        `json:"grand_total"`
	Received        string        `json:"received"`
	Due             string        `json:"due"`
	Return          string        `json:"return"`
}
