//go:build linux

package performance

import (
	"syscall"

	"frame-bridge/pkg/log"
)

// GetSystemMemory reads system-wide memory through sysinfo(2). Buffers count
// as available since the kernel reclaims them.
func GetSystemMemory() (MemorySnapshot, bool) {
	var info syscall.Sysinfo_t
	if err := syscall.Sysinfo(&info); err != nil {
		log.For("performance").Debugf("GetSystemMemory: sysinfo failed: %v", err)
		return MemorySnapshot{}, false
	}

	unit := uint64(info.Unit)
	toMB := func(v uint64) uint64 { return v * unit / (1024 * 1024) }

	return MemorySnapshot{
		TotalMB:     toMB(uint64(info.Totalram)),
		AvailableMB: toMB(uint64(info.Freeram) + uint64(info.Bufferram)),
	}, true
}
