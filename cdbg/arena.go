package cdbg

// unitigArena is an append-only slab of UnitigNodes addressed by UnitigID,
// grounded on the teacher's arena.go/z/allocator.go slab allocator: instead
// of a pointer-chasing owned graph, every UnitigNode lives in one slice and
// is addressed by a small integer handle that stays valid for the node's
// whole lifetime (a freed slot is tombstoned, never reused, so no handle
// is ever silently repointed at a different node).
type unitigArena struct {
	nodes []UnitigNode
	live  []bool
}

// newUnitigArena reserves slot 0 as invalid so the zero UnitigID can serve
// as a "no such node" sentinel.
func newUnitigArena() *unitigArena {
	a := &unitigArena{}
	a.nodes = append(a.nodes, UnitigNode{})
	a.live = append(a.live, false)
	return a
}

// alloc appends a new node and returns its freshly minted, monotonically
// increasing id (spec §3: "id unique, monotonically assigned from 1").
func (a *unitigArena) alloc(n UnitigNode) UnitigID {
	id := UnitigID(len(a.nodes))
	n.ID = id
	a.nodes = append(a.nodes, n)
	a.live = append(a.live, true)
	return id
}

// get returns a pointer to the live node at id, or nil if id is out of
// range or has been tombstoned by free.
func (a *unitigArena) get(id UnitigID) *UnitigNode {
	if id == 0 || int(id) >= len(a.nodes) || !a.live[id] {
		return nil
	}
	return &a.nodes[id]
}

// free tombstones a slot; the UnitigID is never reissued.
func (a *unitigArena) free(id UnitigID) {
	if id == 0 || int(id) >= len(a.nodes) {
		return
	}
	a.live[id] = false
	a.nodes[id] = UnitigNode{}
}

// each calls fn for every live node, in id order.
func (a *unitigArena) each(fn func(*UnitigNode)) {
	for i := 1; i < len(a.nodes); i++ {
		if a.live[i] {
			fn(&a.nodes[i])
		}
	}
}

func (a *unitigArena) count() int {
	n := 0
	for _, l := range a.live {
		if l {
			n++
		}
	}
	return n
}
