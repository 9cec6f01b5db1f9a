package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/cahyo/cashflow/internal/expense"
	"github.com/cahyo/cashflow/internal/interpret"
)

// fixedScanner returns the same OCR output for every image
type fixedScanner struct {
	lines []string
}

func (f *fixedScanner) ReadText(ctx context.Context, imageData []byte, contentType string) ([]string, error) {
	return f.lines, nil
}

func (f *fixedScanner) Close() error {
	return nil
}

var _ = Describe("Integration", func() {
	var (
		tempDir  string
		ledger   *expense.BoltLedger
		store    *expense.LocalStorage
		server   *expense.Server
		ghServer *ghttp.Server
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()

		var err error
		ledger, err = expense.NewBoltLedger(filepath.Join(tempDir, "ledger.db"))
		Expect(err).NotTo(HaveOccurred())

		store, err = expense.NewLocalStorage(filepath.Join(tempDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())

		scanner := &fixedScanner{lines: []string{
			"TOKO MAKMUR",
			"Jl. Merdeka No. 12",
			"Beras 5kg Rp 62.500",
			"Minyak Goreng 2L 34.900",
			"Telur 1kg 27500",
			"TOTAL Rp 124.900",
			"Terima Kasih",
		}}

		service := expense.NewService(ledger, scanner, store)
		server = expense.NewServer(service, expense.BasicAuth{}) // No auth for testing convenience

		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		if ghServer != nil {
			ghServer.Close()
		}
		if ledger != nil {
			ledger.Close()
		}
	})

	It("should scan a receipt, record the reviewed entry and report on it", func() {
		ghServer.AppendHandlers(
			server.ServeHTTP, // scan
			server.ServeHTTP, // record
			server.ServeHTTP, // report
		)

		// --- Step 1: scan ---
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "struk.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("\x89PNG fake image"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghServer.URL()+"/api/scans", writer.FormDataContentType(), body)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var scan expense.Scan
		Expect(json.NewDecoder(resp.Body).Decode(&scan)).To(Succeed())

		Expect(scan.Receipt.Store).To(Equal("TOKO MAKMUR"))
		Expect(scan.Receipt.Total).To(Equal(int64(124900)))
		Expect(scan.Receipt.Items).To(Equal([]interpret.CandidateItem{
			{Name: "Beras kg Rp", Price: 62500},
			{Name: "Minyak Goreng L", Price: 34900},
			{Name: "Telur kg", Price: 27500},
		}))

		// The photo is archived, the ledger untouched
		_, err = store.Get(scan.Image)
		Expect(err).NotTo(HaveOccurred())
		rows, err := ledger.ReadAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())

		// --- Step 2: a person tidies the names, then records it ---
		entry := expense.Receipt{
			Store: "Toko Makmur",
			Date:  "2024-03-20",
			Items: []interpret.CandidateItem{
				{Name: "Beras 5kg", Price: scan.Receipt.Items[0].Price},
				{Name: "Minyak Goreng 2L", Price: scan.Receipt.Items[1].Price},
				{Name: "Telur 1kg", Price: scan.Receipt.Items[2].Price},
				{Name: "", Price: 1000}, // blank rows from the form are dropped
			},
		}
		payload, err := json.Marshal(entry)
		Expect(err).NotTo(HaveOccurred())

		saveResp, err := http.Post(ghServer.URL()+"/api/expenses", "application/json", bytes.NewReader(payload))
		Expect(err).NotTo(HaveOccurred())
		defer saveResp.Body.Close()
		Expect(saveResp.StatusCode).To(Equal(http.StatusCreated))

		rows, err = ledger.ReadAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		for _, row := range rows {
			Expect(row.Store).To(Equal("Toko Makmur"))
			Expect(row.Date).To(Equal("2024-03-20"))
			Expect(row.Total).To(Equal(int64(124900)))
		}

		// --- Step 3: report ---
		reportResp, err := http.Get(ghServer.URL() + "/api/report")
		Expect(err).NotTo(HaveOccurred())
		defer reportResp.Body.Close()
		Expect(reportResp.StatusCode).To(Equal(http.StatusOK))

		var report expense.Summary
		Expect(json.NewDecoder(reportResp.Body).Decode(&report)).To(Succeed())
		Expect(report.TotalSpend).To(Equal(int64(124900)))
		Expect(report.Transactions).To(Equal(3))
		Expect(report.FavoriteStore).To(Equal("Toko Makmur"))
		Expect(report.TotalLabel).To(Equal("Rp 124.900"))
	})
})
