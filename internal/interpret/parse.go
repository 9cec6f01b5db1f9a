package interpret

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minPrice = 100        // exclusive
	maxPrice = 10_000_000 // exclusive

	minNameLength = 3
)

var (
	// ErrNoPrice means the line does not end in a digit run
	ErrNoPrice = errors.New("no trailing price")
	// ErrPriceOutOfRange means the trailing number is too small or too large to be a price
	ErrPriceOutOfRange = errors.New("price out of range")
	// ErrNameTooShort means too little text remains once the price is removed
	ErrNameTooShort = errors.New("item name too short")
)

var (
	trailingDigits = regexp.MustCompile(`\d+$`)
	anyDigit       = regexp.MustCompile(`\d`)
	separators     = strings.NewReplacer("rp", "", ".", "", ",", "")
)

// LineResult is the outcome of interpreting one OCR line.
// Err is nil exactly when Item holds a usable candidate.
type LineResult struct {
	Line string
	Item CandidateItem
	Err  error
}

// Parse interprets OCR lines as a receipt dated today.
// It never fails: lines that cannot be read as an item are skipped.
func Parse(lines []string, today time.Time) ParsedReceipt {
	return ParseSeq(slices.Values(lines), today)
}

// ParseSeq is Parse over a lazily produced sequence of OCR lines.
func ParseSeq(lines iter.Seq[string], today time.Time) ParsedReceipt {
	receipt := ParsedReceipt{
		Store: UnknownStore,
		Date:  today.Format(DateLayout),
		Items: []CandidateItem{},
	}

	first := true
	var candidates []CandidateItem
	for line := range lines {
		if first {
			receipt.Store = line
			first = false
		}

		res := ReadLine(line)
		if res.Err != nil {
			continue
		}
		candidates = append(candidates, res.Item)
		if res.Item.Price > receipt.Total {
			receipt.Total = res.Item.Price
		}
	}

	// The largest price is taken to be the grand total, so every line carrying it is
	// dropped from the items, including genuine items that happen to cost the same.
	for _, c := range candidates {
		if c.Price != receipt.Total {
			receipt.Items = append(receipt.Items, c)
		}
	}

	return receipt
}

// Inspect reports how every line was interpreted, in input order.
func Inspect(lines []string) []LineResult {
	results := make([]LineResult, 0, len(lines))
	for _, line := range lines {
		results = append(results, ReadLine(line))
	}
	return results
}

// ReadLine interprets a single OCR line as an item with a trailing price
func ReadLine(line string) LineResult {
	res := LineResult{Line: line}

	digits := trailingPrice(line)
	if digits == "" {
		res.Err = ErrNoPrice
		return res
	}

	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		res.Err = fmt.Errorf("parsing price %q: %w", digits, err)
		return res
	}
	if price <= minPrice || price >= maxPrice {
		res.Err = fmt.Errorf("%w: %d", ErrPriceOutOfRange, price)
		return res
	}

	name := itemName(line, digits)
	if utf8.RuneCountInString(name) < minNameLength {
		res.Err = fmt.Errorf("%w: %q", ErrNameTooShort, name)
		return res
	}

	res.Item = CandidateItem{Name: name, Price: price}
	return res
}

// trailingPrice returns the digit run ending the normalized line, or "" if there is none.
// Normalization drops the currency token and thousand separators, so "Rp 12.500" gives "12500".
// A single final newline still counts as the end of the line.
func trailingPrice(line string) string {
	clean := separators.Replace(strings.ToLower(line))
	return trailingDigits.FindString(strings.TrimSuffix(clean, "\n"))
}

// itemName strips the price and any other digits from the original line.
// The digit run is removed from the raw text, so a price printed with separators
// leaves its fragments behind until the digit and period passes clear them.
func itemName(line, digits string) string {
	name := strings.TrimSpace(strings.ReplaceAll(line, digits, ""))
	name = anyDigit.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, ".", "")
	return strings.TrimSpace(name)
}
