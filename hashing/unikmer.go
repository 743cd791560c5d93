package hashing

// Unikmer (Wmer) is an extension carrying an auxiliary minimizer/partition
// id alongside the hash, for the optional unikmer-partitioned hasher
// described in spec §3. No partitioning scheme is implemented; this exists
// so a future partitioned hasher can be plugged in without changing dbg or
// compactor call sites.
type Unikmer struct {
	Hash      Hash
	Partition uint64
}

// PartitionFunc assigns a partition id to a hash.
type PartitionFunc func(Hash) uint64

// PartitionedShifter wraps a RollingHasher, tagging every produced hash with
// a partition id. Its RollingHasher methods are unchanged passthroughs;
// Unikmer() surfaces the tagged value.
type PartitionedShifter struct {
	RollingHasher
	partition PartitionFunc
}

// NewPartitionedShifter wraps hasher with fn, which defaults to "partition
// 0 for everything" when nil.
func NewPartitionedShifter(hasher RollingHasher, fn PartitionFunc) *PartitionedShifter {
	if fn == nil {
		fn = func(Hash) uint64 { return 0 }
	}
	return &PartitionedShifter{RollingHasher: hasher, partition: fn}
}

// Unikmer returns the current hash tagged with its partition id.
func (p *PartitionedShifter) Unikmer() Unikmer {
	h := p.RollingHasher.Get()
	return Unikmer{Hash: h, Partition: p.partition(h)}
}
