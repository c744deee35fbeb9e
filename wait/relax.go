package wait

// relaxIterations is the length of the portable busy-spin hint.
const relaxIterations = 16

// relax is a short non-yielding pause. Go exposes no PAUSE/YIELD
// instruction outside the runtime, so this is a minimal fixed-length loop.
//
//go:noinline
func relax() {
	for i := 0; i < relaxIterations; i++ {
	}
}
