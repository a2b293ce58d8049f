package health

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Report is the process diagnostics returned by the health endpoint.
type Report struct {
	Status     string  `json:"status"`
	UptimeSec  float64 `json:"uptimeSec"`
	RSSBytes   uint64  `json:"rssBytes"`
	CPUPercent float64 `json:"cpuPercent"`
	Goroutines int     `json:"goroutines"`
	WSClients  int     `json:"wsClients"`
}

// Collect inspects the current process. Individual probe failures are
// tolerated; the corresponding fields stay zero.
func Collect() (*Report, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}

	report := &Report{
		Status:     "ok",
		Goroutines: runtime.NumGoroutine(),
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		report.RSSBytes = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		report.CPUPercent = cpu
	}
	if created, err := proc.CreateTime(); err == nil {
		report.UptimeSec = time.Since(time.UnixMilli(created)).Seconds()
	}
	return report, nil
}
