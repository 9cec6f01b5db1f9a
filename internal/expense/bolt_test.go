package expense

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltLedger", func() {
	var (
		tmpDir string
		dbPath string
		ledger *BoltLedger
		ctx    context.Context
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "ledger.db")
		ctx = context.Background()
		var err error
		ledger, err = NewBoltLedger(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if ledger != nil {
			ledger.Close()
		}
	})

	Describe("AppendRows", func() {
		var (
			rows []Row
			err  error
		)

		BeforeEach(func() {
			rows = []Row{
				{Date: "2024-01-14", Store: "Toko Makmur", Item: "Kopi", Price: 15000, Total: 23000},
				{Date: "2024-01-14", Store: "Toko Makmur", Item: "Gula", Price: 8000, Total: 23000},
			}
		})

		JustBeforeEach(func() {
			err = ledger.AppendRows(ctx, rows)
		})

		When("appending succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should store the rows", func() {
				all, readErr := ledger.ReadAll(ctx)
				Expect(readErr).NotTo(HaveOccurred())
				Expect(all).To(Equal(rows))
			})
		})

		When("appending more than once", func() {
			It("keeps rows in append order", func() {
				later := make([]Row, 0, 300)
				for i := range 300 {
					later = append(later, Row{Date: "2024-01-15", Store: "Warung", Item: "Item", Price: int64(1000 + i)})
				}
				Expect(ledger.AppendRows(ctx, later)).To(Succeed())

				all, readErr := ledger.ReadAll(ctx)
				Expect(readErr).NotTo(HaveOccurred())
				Expect(all).To(HaveLen(302))
				Expect(all[:2]).To(Equal(rows))
				Expect(all[2:]).To(Equal(later))
			})
		})

		When("the context is cancelled", func() {
			BeforeEach(func() {
				cancelled, cancel := context.WithCancel(context.Background())
				cancel()
				ctx = cancelled
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(context.Canceled))
			})
		})
	})

	Describe("ReadAll", func() {
		When("the ledger is empty", func() {
			It("returns an empty list", func() {
				all, err := ledger.ReadAll(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(all).NotTo(BeNil())
				Expect(all).To(BeEmpty())
			})
		})

		When("the database is reopened", func() {
			It("keeps the rows", func() {
				Expect(ledger.AppendRows(ctx, []Row{{Date: "2024-01-14", Store: "Toko", Item: "Kopi", Price: 15000, Total: 15000}})).To(Succeed())
				Expect(ledger.Close()).To(Succeed())

				var err error
				ledger, err = NewBoltLedger(dbPath)
				Expect(err).NotTo(HaveOccurred())

				all, err := ledger.ReadAll(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(HaveLen(1))
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := ledger.Close()
			Expect(err).NotTo(HaveOccurred())
			ledger = nil
		})
	})
})
