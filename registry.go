package metacache

import "metacache/internal/pool"

// globalClients is the process-wide Client Slot Pool: every open
// Client registers here, and the index it receives is the only
// identity the pool cares about. It is a package-level Pool created at
// package initialization, not on first use; the Pool's own mutex
// serializes concurrent opens and closes. Tests observe it directly
// rather than through the Client API.
var globalClients = pool.New[*inner]()

// Objects returns every currently open client's inner state, for tests
// that want to assert on process-wide client count without going
// through individual Client handles.
func Objects() []*inner {
	return globalClients.Slots()
}

// FreeIndices returns the slot indices available for immediate reuse.
func FreeIndices() []int {
	return globalClients.Free()
}

// OpenClientCount reports how many Client slots are currently in use.
func OpenClientCount() int {
	return globalClients.Len()
}
