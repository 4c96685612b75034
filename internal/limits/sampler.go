package limits

import (
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sampler provides point-in-time system usage readings. The live
// implementation reads from the host; tests substitute fixed values.
type Sampler interface {
	// CPUPercent returns overall CPU utilization in percent.
	CPUPercent() (float64, error)
	// Memory returns utilization in percent and available memory in MB.
	Memory() (float64, float64, error)
	// Disk returns root-filesystem utilization in percent and free space in GB.
	Disk() (float64, float64, error)
	// Temperature returns the CPU temperature in Celsius when a sensor is
	// available.
	Temperature() (float64, bool)
}

const thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

type systemSampler struct {
	thermalPath string
}

func newSystemSampler() *systemSampler {
	return &systemSampler{thermalPath: thermalZonePath}
}

func (s *systemSampler) CPUPercent() (float64, error) {
	// Instantaneous sample since the last call; avoids blocking for an
	// interval on every resource check.
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

func (s *systemSampler) Memory() (float64, float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	return vm.UsedPercent, float64(vm.Available) / (1024 * 1024), nil
}

func (s *systemSampler) Disk() (float64, float64, error) {
	usage, err := disk.Usage("/")
	if err != nil {
		return 0, 0, err
	}
	return usage.UsedPercent, float64(usage.Free) / (1024 * 1024 * 1024), nil
}

// Temperature prefers the Raspberry Pi thermal zone file and falls back to
// host sensor enumeration.
func (s *systemSampler) Temperature() (float64, bool) {
	if raw, err := os.ReadFile(s.thermalPath); err == nil {
		if milli, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil {
			return float64(milli) / 1000.0, true
		}
	}

	temps, err := host.SensorsTemperatures()
	if err != nil {
		return 0, false
	}
	for _, t := range temps {
		if t.Temperature > 0 {
			return t.Temperature, true
		}
	}
	return 0, false
}
