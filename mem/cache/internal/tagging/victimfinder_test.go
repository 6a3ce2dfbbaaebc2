package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fullSet(stamps ...[2]int64) *Set {
	set := &Set{}

	for i, s := range stamps {
		set.Blocks = append(set.Blocks, Block{
			WayID:      i,
			Tag:        uint32(i + 100),
			IsValid:    true,
			LastAccess: s[0],
			Insertion:  s[1],
		})
	}

	return set
}

var _ = Describe("LRUVictimFinder", func() {
	var finder *LRUVictimFinder

	BeforeEach(func() {
		finder = NewLRUVictimFinder()
	})

	It("should pick the least recently used block", func() {
		set := fullSet([2]int64{5, 1}, [2]int64{2, 2}, [2]int64{9, 3})

		Expect(finder.FindVictim(set).WayID).To(Equal(1))
	})

	It("should break ties with the lowest way", func() {
		set := fullSet([2]int64{7, 7}, [2]int64{3, 3}, [2]int64{3, 3}, [2]int64{8, 8})

		Expect(finder.FindVictim(set).WayID).To(Equal(1))
	})
})

var _ = Describe("FIFOVictimFinder", func() {
	var finder *FIFOVictimFinder

	BeforeEach(func() {
		finder = NewFIFOVictimFinder()
	})

	It("should pick the earliest inserted block", func() {
		set := fullSet([2]int64{1, 6}, [2]int64{2, 4}, [2]int64{3, 5})

		Expect(finder.FindVictim(set).WayID).To(Equal(1))
	})

	It("should ignore access stamps", func() {
		set := fullSet([2]int64{1, 8}, [2]int64{9, 2})

		Expect(finder.FindVictim(set).WayID).To(Equal(1))
	})

	It("should break ties with the lowest way", func() {
		set := fullSet([2]int64{1, 4}, [2]int64{1, 4})

		Expect(finder.FindVictim(set).WayID).To(Equal(0))
	})
})

var _ = Describe("RandomVictimFinder", func() {
	It("should stay within the set", func() {
		finder := NewRandomVictimFinder(1)
		set := fullSet([2]int64{1, 1}, [2]int64{2, 2}, [2]int64{3, 3})

		for i := 0; i < 100; i++ {
			wayID := finder.FindVictim(set).WayID
			Expect(wayID).To(BeNumerically(">=", 0))
			Expect(wayID).To(BeNumerically("<", 3))
		}
	})

	It("should be deterministic under a seed", func() {
		a := NewRandomVictimFinder(42)
		b := NewRandomVictimFinder(42)
		set := fullSet(
			[2]int64{1, 1}, [2]int64{2, 2}, [2]int64{3, 3}, [2]int64{4, 4})

		for i := 0; i < 50; i++ {
			Expect(a.FindVictim(set)).To(Equal(b.FindVictim(set)))
		}
	})

	It("should eventually pick every way", func() {
		finder := NewRandomVictimFinder(7)
		set := fullSet([2]int64{1, 1}, [2]int64{2, 2}, [2]int64{3, 3})
		seen := map[int]bool{}

		for i := 0; i < 300; i++ {
			seen[finder.FindVictim(set).WayID] = true
		}

		Expect(seen).To(HaveLen(3))
	})
})
