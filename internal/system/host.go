package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a run executed on.
type HostInfo struct {
	OS              string  `yaml:"os"`
	Arch            string  `yaml:"arch"`
	CPUs            int     `yaml:"cpus"`
	TotalMemory     uint64  `yaml:"total_memory"`
	AvailableMemory uint64  `yaml:"available_memory"`
	MemoryUsed      float64 `yaml:"memory_used_percent"`
}

// Host collects HostInfo. Fields gopsutil cannot read stay zero; CPUs falls
// back to runtime.NumCPU.
func Host() HostInfo {
	info := HostInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		CPUs: runtime.NumCPU(),
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.CPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
		info.AvailableMemory = vm.Available
		info.MemoryUsed = vm.UsedPercent
	}
	return info
}

// DefaultWorkers sizes the worker pool for n images: one per logical CPU,
// never more than there are images.
func DefaultWorkers(n int) int {
	w := Host().CPUs
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}
