// Package interpret turns unordered OCR text fragments from a photographed receipt
// into a structured receipt: store, date, line items and grand total.
package interpret

// UnknownStore is used as the store name when OCR produced no text at all.
const UnknownStore = "Toko Unknown"

// DateLayout is the ISO 8601 calendar date layout used for receipt dates.
const DateLayout = "2006-01-02"

// CandidateItem is a purchased item inferred from a single OCR line
type CandidateItem struct {
	Name  string `json:"item"`
	Price int64  `json:"price"` // Whole rupiah
}

// ParsedReceipt is the best-effort interpretation of a receipt
type ParsedReceipt struct {
	Store string          `json:"store"`
	Date  string          `json:"date"` // ISO 8601 format
	Total int64           `json:"total"`
	Items []CandidateItem `json:"items"`
}
