//go:build !linux

package wait

import "runtime"

func sleep0() {
	runtime.Gosched()
}
