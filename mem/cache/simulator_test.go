package cache

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
	"go.uber.org/mock/gomock"
)

func mustBuild(b Builder) *Simulator {
	s, err := b.Build()
	Expect(err).NotTo(HaveOccurred())

	return s
}

func accessAll(s *Simulator, addresses ...uint32) []AccessResult {
	results := make([]AccessResult, 0, len(addresses))
	for _, a := range addresses {
		results = append(results, s.Access(a))
	}

	return results
}

var _ = Describe("Simulator", func() {
	Context("direct-mapped, 4 sets of 4 bytes", func() {
		var s *Simulator

		BeforeEach(func() {
			s = mustBuild(MakeBuilder().
				WithNumSets(4).
				WithBlockSize(4).
				WithAssociativity(1).
				WithPolicy(PolicyLRU))
		})

		It("should miss compulsorily and then hit", func() {
			results := accessAll(s, 0x0, 0x0)

			Expect(results[0].Kind).To(Equal(AccessCompulsoryMiss))
			Expect(results[1].Kind).To(Equal(AccessHit))
			Expect(s.Stats()).To(Equal(Statistics{
				TotalAccesses: 2,
				Hits:          1,
				Misses:        1,
				Compulsory:    1,
			}))
		})

		It("should classify a set conflict before the cache is full", func() {
			results := accessAll(s, 0x0, 0x10)

			Expect(results[1].SetID).To(Equal(0))
			Expect(results[1].Tag).To(Equal(uint32(1)))
			Expect(results[1].Kind).To(Equal(AccessConflictMiss))
			Expect(results[1].Evicted).To(BeTrue())
			Expect(results[1].EvictedTag).To(Equal(uint32(0)))
			Expect(s.FilledLines()).To(Equal(1))
			Expect(s.Stats().Conflict).To(Equal(uint64(1)))
			Expect(s.Stats().Capacity).To(BeZero())
		})

		It("should classify as capacity once every line is filled", func() {
			accessAll(s, 0x0, 0x4, 0x8, 0xc)
			Expect(s.FilledLines()).To(Equal(4))

			r := s.Access(0x10)

			Expect(r.Kind).To(Equal(AccessCapacityMiss))
		})

		It("should hit on any byte of a block", func() {
			results := accessAll(s, 0x20, 0x21, 0x22, 0x23)

			Expect(results[0].Kind).To(Equal(AccessCompulsoryMiss))
			for _, r := range results[1:] {
				Expect(r.Kind).To(Equal(AccessHit))
			}
		})

		It("should stamp accesses with a counter shared by all sets", func() {
			results := accessAll(s, 0x0, 0x4, 0x8, 0x0)

			for i, r := range results {
				Expect(r.Stamp).To(Equal(int64(i + 1)))
			}
			Expect(s.AccessCount()).To(Equal(int64(4)))
			Expect(s.Line(0, 0).LastAccess).To(Equal(int64(4)))
			Expect(s.Line(1, 0).LastAccess).To(Equal(int64(2)))
		})

		It("should keep the installed address as the line value", func() {
			accessAll(s, 0x17, 0x14)

			line := s.Line(1, 0)
			Expect(line.Valid).To(BeTrue())
			Expect(line.Tag).To(Equal(uint32(1)))
			Expect(line.Value).To(Equal(uint32(0x17)))
			Expect(s.Line(2, 0).Valid).To(BeFalse())
		})
	})

	Context("fully associative, 2 lines", func() {
		var b Builder

		BeforeEach(func() {
			b = MakeBuilder().
				WithNumSets(1).
				WithBlockSize(4).
				WithAssociativity(2)
		})

		It("should classify the third distinct block as capacity", func() {
			s := mustBuild(b.WithPolicy(PolicyLRU))

			results := accessAll(s, 0x0, 0x4, 0x8)

			Expect(results[0].Kind).To(Equal(AccessCompulsoryMiss))
			Expect(results[1].Kind).To(Equal(AccessCompulsoryMiss))
			Expect(results[2].Kind).To(Equal(AccessCapacityMiss))
			Expect(s.FilledLines()).To(Equal(2))
		})

		It("should evict the least recently used line", func() {
			s := mustBuild(b.WithPolicy(PolicyLRU))

			results := accessAll(s, 0x0, 0x4, 0x0, 0x8)

			Expect(results[3].WayID).To(Equal(1))
			Expect(results[3].EvictedTag).To(Equal(uint32(1)))
		})

		It("should evict the first inserted line", func() {
			s := mustBuild(b.WithPolicy(PolicyFIFO))

			results := accessAll(s, 0x0, 0x4, 0x8)

			Expect(results[2].WayID).To(Equal(0))
			Expect(results[2].EvictedTag).To(Equal(uint32(0)))
		})

		It("should restart FIFO order when a line is hit", func() {
			s := mustBuild(b.WithPolicy(PolicyFIFO))

			results := accessAll(s, 0x0, 0x4, 0x0, 0x8)

			Expect(results[2].Kind).To(Equal(AccessHit))
			Expect(results[3].WayID).To(Equal(1))
			Expect(results[3].EvictedTag).To(Equal(uint32(1)))
		})

		It("should replay identically under the same seed", func() {
			trace := make([]uint32, 500)
			rng := rand.New(rand.NewSource(3))
			for i := range trace {
				trace[i] = uint32(rng.Intn(16)) * 4
			}

			s1 := mustBuild(b.WithPolicy(PolicyRandom).WithSeed(11))
			s2 := mustBuild(b.WithPolicy(PolicyRandom).WithSeed(11))

			Expect(accessAll(s1, trace...)).To(Equal(accessAll(s2, trace...)))
		})
	})

	It("should break LRU ties with the lowest way", func() {
		s := mustBuild(MakeBuilder().
			WithNumSets(1).
			WithBlockSize(4).
			WithAssociativity(4).
			WithPolicy(PolicyLRU))
		accessAll(s, 0x0, 0x4, 0x8, 0xc)

		blocks := s.tags.GetSet(0).Blocks
		blocks[0].LastAccess = 10
		blocks[1].LastAccess = 2
		blocks[2].LastAccess = 2
		blocks[3].LastAccess = 10

		r := s.Access(0x100)

		Expect(r.WayID).To(Equal(1))
		Expect(r.EvictedTag).To(Equal(uint32(1)))
	})

	Context("with a mocked victim finder", func() {
		var (
			mockCtrl     *gomock.Controller
			victimFinder *MockVictimFinder
			s            *Simulator
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			victimFinder = NewMockVictimFinder(mockCtrl)
			s = mustBuild(MakeBuilder().
				WithNumSets(2).
				WithBlockSize(4).
				WithAssociativity(2).
				WithVictimFinder(victimFinder))
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should not ask for a victim while the set has invalid ways", func() {
			accessAll(s, 0x0, 0x8, 0x0, 0x4)
		})

		It("should install over the chosen victim", func() {
			accessAll(s, 0x0, 0x8)

			victimFinder.EXPECT().
				FindVictim(gomock.Any()).
				DoAndReturn(func(set *tagging.Set) tagging.Block {
					Expect(set.Blocks).To(HaveLen(2))
					return set.Blocks[1]
				})

			r := s.Access(0x10)

			Expect(r.WayID).To(Equal(1))
			Expect(r.Kind).To(Equal(AccessConflictMiss))
			Expect(r.EvictedValue).To(Equal(uint32(0x8)))
			Expect(s.Line(0, 1).Value).To(Equal(uint32(0x10)))
			Expect(s.Line(0, 0).Value).To(Equal(uint32(0x0)))
		})
	})

	Context("hooks", func() {
		It("should invoke access and evict hooks in order", func() {
			s := mustBuild(MakeBuilder().
				WithNumSets(1).
				WithBlockSize(4).
				WithAssociativity(1))

			var positions []string
			var kinds []AccessKind
			s.AcceptHook(HookFunc(func(ctx HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(s))
				positions = append(positions, ctx.Pos.Name)
				kinds = append(kinds, ctx.Item.(AccessResult).Kind)
			}))

			accessAll(s, 0x0, 0x0, 0x4)

			Expect(s.NumHooks()).To(Equal(1))
			Expect(positions).To(Equal([]string{
				"Access", "Access", "Access", "Evict"}))
			Expect(kinds).To(Equal([]AccessKind{
				AccessCompulsoryMiss, AccessHit,
				AccessCapacityMiss, AccessCapacityMiss}))
		})

		It("should refuse the same hook twice", func() {
			s := mustBuild(MakeBuilder())
			h := &countingHook{}

			s.AcceptHook(h)

			Expect(func() { s.AcceptHook(h) }).To(Panic())
		})
	})

	It("should reject invalid geometry", func() {
		_, err := MakeBuilder().WithNumSets(12).Build()
		Expect(err).To(MatchError(ErrConfig))

		_, err = MakeBuilder().WithBlockSize(48).Build()
		Expect(err).To(MatchError(ErrConfig))

		_, err = MakeBuilder().WithAssociativity(0).Build()
		Expect(err).To(MatchError(ErrConfig))
	})

	It("should build from a config", func() {
		c := Config{NumSets: 8, BlockSize: 32, Associativity: 2, Policy: PolicyFIFO}

		s := mustBuild(MakeBuilder().WithConfig(c))

		Expect(s.Config()).To(Equal(c))
		Expect(s.victimFinder).To(BeAssignableToTypeOf(&tagging.FIFOVictimFinder{}))
	})
})

type countingHook struct {
	count int
}

func (h *countingHook) Func(_ HookCtx) {
	h.count++
}

var _ = Describe("Simulator invariants", func() {
	configs := []Config{
		{NumSets: 1, BlockSize: 4, Associativity: 1},
		{NumSets: 4, BlockSize: 4, Associativity: 1},
		{NumSets: 1, BlockSize: 16, Associativity: 8},
		{NumSets: 8, BlockSize: 8, Associativity: 2},
		{NumSets: 16, BlockSize: 64, Associativity: 3},
	}

	for _, policy := range []Policy{PolicyRandom, PolicyFIFO, PolicyLRU} {
		for _, config := range configs {
			config := config
			config.Policy = policy

			It("should hold for "+policy.String()+" "+
				config.Organization().String(), func() {
				s := mustBuild(MakeBuilder().WithConfig(config).WithSeed(5))
				rng := rand.New(rand.NewSource(int64(config.Capacity())))
				seen := map[[2]uint32]bool{}
				lastFilled := 0

				for i := 0; i < 3000; i++ {
					addr := uint32(rng.Intn(64 * config.Capacity() * config.BlockSize))
					_, freeBefore := s.tags.FindInvalid(s.setOf(addr))

					r := s.Access(addr)
					key := [2]uint32{r.Tag, uint32(r.SetID)}

					if !seen[key] && freeBefore {
						Expect(r.Kind).To(Equal(AccessCompulsoryMiss))
					}
					if r.Kind == AccessCapacityMiss {
						Expect(s.FilledLines()).To(Equal(config.Capacity()))
					}
					seen[key] = true

					Expect(s.FilledLines()).To(BeNumerically(">=", lastFilled))
					Expect(s.FilledLines()).To(BeNumerically("<=", config.Capacity()))
					lastFilled = s.FilledLines()
				}

				st := s.Stats()
				Expect(st.TotalAccesses).To(Equal(uint64(3000)))
				Expect(st.Hits + st.Misses).To(Equal(st.TotalAccesses))
				Expect(st.Compulsory + st.Capacity + st.Conflict).
					To(Equal(st.Misses))
				Expect(st.Compulsory).To(Equal(uint64(s.FilledLines())))
			})
		}
	}
})

func (s *Simulator) setOf(address uint32) int {
	_, index := s.decoder.Decode(address)
	return int(index)
}
