package cache

// AddressDecoder splits an address into tag, set index and block offset.
type AddressDecoder struct {
	offsetBits uint
	indexBits  uint
	indexMask  uint32
}

// NewAddressDecoder creates a decoder for the given geometry. Both arguments
// must be powers of two.
func NewAddressDecoder(blockSize, numSets int) (AddressDecoder, error) {
	c := Config{
		NumSets:       numSets,
		BlockSize:     blockSize,
		Associativity: 1,
		Policy:        PolicyLRU,
	}

	if err := c.Validate(); err != nil {
		return AddressDecoder{}, err
	}

	d := AddressDecoder{
		offsetBits: log2(blockSize),
		indexBits:  log2(numSets),
		indexMask:  uint32(uint64(numSets) - 1),
	}

	return d, nil
}

// Decode returns the tag and the set index of the address.
func (d AddressDecoder) Decode(address uint32) (tag, index uint32) {
	// The mask equals taking the modulo of a power-of-two set count. A 32-bit
	// shift yields 0, the tag of a cache that spans the whole address space.
	index = (address >> d.offsetBits) & d.indexMask
	tag = address >> (d.offsetBits + d.indexBits)

	return tag, index
}

// Offset returns the byte position of the address within its block.
func (d AddressDecoder) Offset(address uint32) uint32 {
	return address & (1<<d.offsetBits - 1)
}
