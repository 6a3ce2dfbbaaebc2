package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var (
		tags TagArray
	)

	BeforeEach(func() {
		tags = NewTagArray(4, 2)
	})

	It("should report geometry and capacity", func() {
		Expect(tags.NumSets()).To(Equal(4))
		Expect(tags.NumWays()).To(Equal(2))
		Expect(tags.Capacity()).To(Equal(8))
		Expect(tags.FilledCount()).To(Equal(0))
	})

	It("should start with invalid blocks without stamps", func() {
		set := tags.GetSet(3)

		Expect(set.Blocks).To(HaveLen(2))
		for i, block := range set.Blocks {
			Expect(block.IsValid).To(BeFalse())
			Expect(block.SetID).To(Equal(3))
			Expect(block.WayID).To(Equal(i))
			Expect(block.LastAccess).To(Equal(NoStamp))
			Expect(block.Insertion).To(Equal(NoStamp))
		}
	})

	It("should lookup", func() {
		tags.Install(1, 1, 0x100, 0x1000, 7)

		block, ok := tags.Lookup(1, 0x100)

		Expect(ok).To(BeTrue())
		Expect(block.WayID).To(Equal(1))
		Expect(block.Value).To(Equal(uint32(0x1000)))
	})

	It("should not find a tag in another set", func() {
		tags.Install(1, 0, 0x100, 0x1000, 1)

		_, ok := tags.Lookup(2, 0x100)

		Expect(ok).To(BeFalse())
	})

	It("should not match invalid blocks", func() {
		set := tags.GetSet(0)
		set.Blocks[0].Tag = 0x100

		block, ok := tags.Lookup(0, 0x100)

		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should find the first invalid way", func() {
		wayID, ok := tags.FindInvalid(0)
		Expect(ok).To(BeTrue())
		Expect(wayID).To(Equal(0))

		tags.Install(0, 0, 1, 1, 1)
		wayID, ok = tags.FindInvalid(0)
		Expect(ok).To(BeTrue())
		Expect(wayID).To(Equal(1))

		tags.Install(0, 1, 2, 2, 2)
		_, ok = tags.FindInvalid(0)
		Expect(ok).To(BeFalse())
	})

	It("should count a line once when it is overwritten", func() {
		tags.Install(2, 0, 1, 0x10, 1)
		tags.Install(2, 0, 2, 0x20, 2)

		Expect(tags.FilledCount()).To(Equal(1))

		block := tags.GetSet(2).Blocks[0]
		Expect(block.Tag).To(Equal(uint32(2)))
		Expect(block.Value).To(Equal(uint32(0x20)))
		Expect(block.LastAccess).To(Equal(int64(2)))
		Expect(block.Insertion).To(Equal(int64(2)))
	})

	It("should update both stamps on touch", func() {
		tags.Install(0, 1, 5, 0x50, 3)
		tags.Touch(0, 1, 9)

		block := tags.GetSet(0).Blocks[1]
		Expect(block.Tag).To(Equal(uint32(5)))
		Expect(block.Value).To(Equal(uint32(0x50)))
		Expect(block.LastAccess).To(Equal(int64(9)))
		Expect(block.Insertion).To(Equal(int64(9)))
		Expect(tags.FilledCount()).To(Equal(1))
	})

	It("should reset", func() {
		tags.Install(0, 0, 1, 1, 1)
		tags.Reset()

		Expect(tags.FilledCount()).To(Equal(0))
		Expect(tags.GetSet(0).Blocks[0].IsValid).To(BeFalse())
	})
})
