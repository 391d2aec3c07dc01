package locks

import "runtime"

// goroutineID returns the current goroutine's id, parsed from the stack
// header ("goroutine NNN [...]"). This reaches into runtime internals and is
// used only for lock ownership bookkeeping, never for scheduling decisions.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
