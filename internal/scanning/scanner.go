// Package scanning reads the text printed on a receipt photo.
package scanning

import "context"

// Scanner defines the interface for receipt OCR
type Scanner interface {
	// ReadText returns the text fragments recognized in a receipt image or PDF.
	// Fragments come back in no guaranteed order.
	ReadText(ctx context.Context, imageData []byte, contentType string) ([]string, error)
	// Close closes the scanner and releases resources
	Close() error
}
