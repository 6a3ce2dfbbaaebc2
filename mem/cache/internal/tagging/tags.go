package tagging

// NoStamp marks a block that has never been installed.
const NoStamp int64 = -1

// A TagArray holds the state of every line in the cache.
type TagArray interface {
	NumSets() int
	NumWays() int
	GetSet(setID int) *Set
	Lookup(setID int, tag uint32) (Block, bool)
	FindInvalid(setID int) (wayID int, ok bool)
	Install(setID, wayID int, tag, value uint32, stamp int64)
	Touch(setID, wayID int, stamp int64)
	FilledCount() int
	Capacity() int
	Reset()
}

// NewTagArray creates a tag array with every block invalid.
func NewTagArray(numSets, numWays int) TagArray {
	t := &tagArrayImpl{
		numSets: numSets,
		numWays: numWays,
	}

	t.Reset()

	return t
}

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	SetID      int
	WayID      int
	Tag        uint32
	Value      uint32
	IsValid    bool
	LastAccess int64
	Insertion  int64
}

// A Set is the list of blocks where a certain address can be stored at.
type Set struct {
	Blocks []Block
}

type tagArrayImpl struct {
	numSets int
	numWays int
	sets    []Set
	filled  int
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

// Capacity returns the number of lines in the cache.
func (t *tagArrayImpl) Capacity() int {
	return t.numSets * t.numWays
}

// FilledCount returns the number of lines that have ever been valid.
func (t *tagArrayImpl) FilledCount() int {
	return t.filled
}

func (t *tagArrayImpl) GetSet(setID int) *Set {
	return &t.sets[setID]
}

// Lookup finds the valid block that holds the tag in the given set.
func (t *tagArrayImpl) Lookup(setID int, tag uint32) (Block, bool) {
	for _, block := range t.sets[setID].Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// FindInvalid returns the first way of the set that has never been filled.
func (t *tagArrayImpl) FindInvalid(setID int) (int, bool) {
	for i, block := range t.sets[setID].Blocks {
		if !block.IsValid {
			return i, true
		}
	}

	return 0, false
}

// Install places a tag into a way, overwriting whatever the way held.
func (t *tagArrayImpl) Install(
	setID, wayID int,
	tag, value uint32,
	stamp int64,
) {
	block := &t.sets[setID].Blocks[wayID]

	if !block.IsValid {
		t.filled++
	}

	block.IsValid = true
	block.Tag = tag
	block.Value = value
	block.LastAccess = stamp
	block.Insertion = stamp
}

// Touch records a hit on a way. The insertion stamp moves together with the
// access stamp, so FIFO order restarts from the latest hit.
func (t *tagArrayImpl) Touch(setID, wayID int, stamp int64) {
	block := &t.sets[setID].Blocks[wayID]
	block.LastAccess = stamp
	block.Insertion = stamp
}

// Reset will mark all the blocks in the directory invalid
func (t *tagArrayImpl) Reset() {
	t.filled = 0
	t.sets = make([]Set, t.numSets)

	for i := 0; i < t.numSets; i++ {
		t.sets[i].Blocks = make([]Block, t.numWays)
		for j := 0; j < t.numWays; j++ {
			t.sets[i].Blocks[j] = Block{
				SetID:      i,
				WayID:      j,
				LastAccess: NoStamp,
				Insertion:  NoStamp,
			}
		}
	}
}
