//go:build linux

package wait

import "golang.org/x/sys/unix"

// sleep0 issues a zero-duration nanosleep, which gives up the remainder of
// the OS thread's quantum to any runnable thread.
func sleep0() {
	_ = unix.Nanosleep(&unix.Timespec{}, nil)
}
