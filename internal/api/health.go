package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// HealthReport — ответ /health
type HealthReport struct {
	Status     string  `json:"status"`
	Session    string  `json:"session"`
	Tick       uint64  `json:"tick"`
	Units      int     `json:"units"`
	Effects    int     `json:"effects"`
	Uptime     string  `json:"uptime"`
	MemoryMB   float64 `json:"memory_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	Goroutines int     `json:"goroutines"`
}

// processStats собирает показатели процесса сервера
type processStats struct {
	start time.Time
	proc  *process.Process
}

func newProcessStats() *processStats {
	ps := &processStats{start: time.Now()}
	// Без gopsutil-процесса отчёт остаётся рабочим, CPU будет 0.
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps.proc = p
	}
	return ps
}

// fill дополняет отчёт показателями процесса
func (ps *processStats) fill(r *HealthReport) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.Uptime = formatUptime(time.Since(ps.start))
	r.MemoryMB = float64(m.Alloc) / 1024 / 1024
	r.Goroutines = runtime.NumGoroutine()
	if ps.proc != nil {
		if cpu, err := ps.proc.CPUPercent(); err == nil {
			r.CPUPercent = cpu
		}
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}
