package expense

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Summarize", func() {
	var (
		rows   []Row
		report *Summary
	)

	JustBeforeEach(func() {
		report = Summarize(rows)
	})

	When("the ledger is empty", func() {
		BeforeEach(func() {
			rows = nil
		})

		It("returns a zero report", func() {
			Expect(report.TotalSpend).To(BeZero())
			Expect(report.Transactions).To(BeZero())
			Expect(report.FavoriteStore).To(BeEmpty())
			Expect(report.SpendByStore).To(BeEmpty())
		})

		It("still labels the total", func() {
			Expect(report.TotalLabel).To(Equal("Rp 0"))
		})
	})

	When("the ledger has rows", func() {
		BeforeEach(func() {
			rows = []Row{
				{Date: "2024-01-14", Store: "Toko Makmur", Item: "Kopi", Price: 15000, Total: 23000},
				{Date: "2024-01-14", Store: "Toko Makmur", Item: "Gula", Price: 8000, Total: 23000},
				{Date: "2024-01-15", Store: "Indomaret", Item: "Susu", Price: 1250000, Total: 1250000},
				{Date: "2024-01-16", Store: "Toko Makmur", Item: "Teh", Price: 4000, Total: 4000},
			}
		})

		It("sums item prices", func() {
			Expect(report.TotalSpend).To(Equal(int64(1277000)))
			Expect(report.TotalLabel).To(Equal("Rp 1.277.000"))
		})

		It("counts every row", func() {
			Expect(report.Transactions).To(Equal(4))
		})

		It("picks the most frequent store", func() {
			Expect(report.FavoriteStore).To(Equal("Toko Makmur"))
		})

		It("groups spend by store in name order", func() {
			Expect(report.SpendByStore).To(Equal([]StoreSpend{
				{Store: "Indomaret", Spend: 1250000, Label: "Rp 1.250.000"},
				{Store: "Toko Makmur", Spend: 27000, Label: "Rp 27.000"},
			}))
		})
	})

	When("stores tie for most rows", func() {
		BeforeEach(func() {
			rows = []Row{
				{Store: "Warteg", Item: "Nasi", Price: 12000},
				{Store: "Alfamart", Item: "Roti", Price: 9000},
			}
		})

		It("picks the alphabetically first", func() {
			Expect(report.FavoriteStore).To(Equal("Alfamart"))
		})
	})
})

var _ = Describe("FormatRupiah", func() {
	It("groups thousands with periods", func() {
		Expect(FormatRupiah(1234567)).To(Equal("Rp 1.234.567"))
	})

	It("leaves small amounts alone", func() {
		Expect(FormatRupiah(500)).To(Equal("Rp 500"))
	})
})
