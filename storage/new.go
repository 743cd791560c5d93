package storage

// Params bundles the variant-specific construction tuple of spec §4.3/§6.
// Only the fields relevant to Kind are read.
type Params struct {
	MaxTableBytes uint64
	NTables       int
	Log2Slots     uint
}

// New constructs the MembershipStore selected by kind with the given
// params.
func New(kind Kind, p Params) MembershipStore {
	switch kind {
	case Bit:
		return NewBitStore(p.MaxTableBytes, p.NTables)
	case Nibble:
		return NewNibbleStore(p.MaxTableBytes, p.NTables)
	case Byte:
		return NewByteStore(p.MaxTableBytes, p.NTables)
	case QF:
		return NewQFStore(p.Log2Slots)
	case HashMap:
		return NewHashMapStore()
	default:
		return NewHashSetStore()
	}
}
