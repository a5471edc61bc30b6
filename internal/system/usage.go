package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Usage is a snapshot of this process's resource use.
type Usage struct {
	RSS        uint64 // bytes
	CPUPercent float64
	Threads    int32
}

// CurrentUsage samples the running process. Fields that cannot be read are
// left zero.
func CurrentUsage() (Usage, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Usage{}, err
	}

	var u Usage
	if mem, err := p.MemoryInfo(); err == nil {
		u.RSS = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		u.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		u.Threads = n
	}
	return u, nil
}

// PeakTracker remembers the largest RSS seen across samples.
type PeakTracker struct {
	Peak uint64
}

// Sample reads current usage and updates the peak.
func (t *PeakTracker) Sample() {
	u, err := CurrentUsage()
	if err != nil {
		return
	}
	if u.RSS > t.Peak {
		t.Peak = u.RSS
	}
}
