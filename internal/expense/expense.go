package expense

import "github.com/cahyo/cashflow/internal/interpret"

// Ledger column headers, in row order
var header = []string{"Tanggal", "Toko", "Barang", "Harga", "Total"}

// Row is one purchased item in the ledger.
// Every item of a receipt becomes a row repeating the receipt's date, store and total.
type Row struct {
	Date  string `json:"date" csv:"Tanggal"` // ISO 8601 format
	Store string `json:"store" csv:"Toko"`
	Item  string `json:"item" csv:"Barang"`
	Price int64  `json:"price" csv:"Harga"` // Whole rupiah
	Total int64  `json:"total" csv:"Total"` // Whole rupiah
}

// Receipt is a scanned receipt as confirmed or corrected by a person, ready to be recorded
type Receipt struct {
	Store string                    `json:"store"`
	Date  string                    `json:"date"` // ISO 8601 format, empty means today
	Items []interpret.CandidateItem `json:"items"`
}

// Scan is the result of reading a receipt photo
type Scan struct {
	ID      string                  `json:"id"`
	Image   string                  `json:"image"` // Archived photo filename
	Lines   []string                `json:"lines"` // Raw OCR output
	Receipt interpret.ParsedReceipt `json:"receipt"`
}
