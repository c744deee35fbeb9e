package wait

// Sequence is a read-only, monotonically non-decreasing 64-bit counter.
// Load must observe the latest store from any goroutine; sync/atomic
// loads satisfy this.
type Sequence interface {
	Load() int64
}

// MinimumSequence returns the smallest value currently observed across seqs.
// INVARIANT: seqs is non-empty. Callers with no dependents read the cursor
// instead.
func MinimumSequence(seqs []Sequence) int64 {
	minimum := seqs[0].Load()
	for i := 1; i < len(seqs); i++ {
		seq := seqs[i].Load()
		diff := minimum - seq
		mask := diff >> 63 // arithmetic right shift: 0 if diff>=0, -1 if diff<0
		minimum = seq + (diff & mask)
	}
	return minimum
}

// Group is a Sequence whose value is the minimum of its members.
type Group []Sequence

// Load returns the minimum of the group.
// INVARIANT: g is non-empty.
func (g Group) Load() int64 {
	return MinimumSequence(g)
}
