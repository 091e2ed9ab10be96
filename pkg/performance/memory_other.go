//go:build !linux

package performance

// GetSystemMemory has no system-wide source outside Linux.
func GetSystemMemory() (MemorySnapshot, bool) {
	return MemorySnapshot{}, false
}
