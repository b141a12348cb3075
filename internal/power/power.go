// Package power reads the Raspberry Pi 5 power management state from the
// fixed kernel interfaces: the device-tree chosen/power node for reset
// cause and PSU negotiation, and sysfs for live undervolt and USB
// overcurrent indications.
package power

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kernel interface roots; package variables so tests can redirect them
// at fixture trees.
var (
	DTPower    = "/proc/device-tree/chosen/power"
	HwmonRoot  = "/sys/class/hwmon"
	USBDevices = "/sys/bus/usb/devices"
)

// Device-tree cells are big-endian 32-bit values.
func readU32(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) < 4 {
		return 0, fmt.Errorf("%s: short read (%d bytes)", path, len(data))
	}
	return binary.BigEndian.Uint32(data), nil
}

// ResetBrownout reports whether the device tree records a power brownout
// (undervolt condition) as the cause of the last reset. An error
// indicates the state cannot be queried, e.g. on non-Pi hardware.
func ResetBrownout() (bool, error) {
	value, err := readU32(filepath.Join(DTPower, "power_reset"))
	if err != nil {
		return false, err
	}
	return value&0x02 != 0, nil
}

// PSUMaxCurrent returns the maximum current negotiated with the power
// supply, in mA. A full 5V/5A supply reports 5000; weaker supplies
// report 3000 or less.
func PSUMaxCurrent() (uint32, error) {
	return readU32(filepath.Join(DTPower, "max_current"))
}

// Undervolt reports whether the rpi_volt hardware monitor currently
// flags an undervolt condition. Absence of the monitor is not an error;
// it simply reports false.
func Undervolt() (bool, error) {
	entries, err := os.ReadDir(HwmonRoot)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		dir := filepath.Join(HwmonRoot, entry.Name())
		name, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil || strings.TrimSpace(string(name)) != "rpi_volt" {
			continue
		}
		alarm, err := os.ReadFile(filepath.Join(dir, "in0_lcrit_alarm"))
		if err != nil {
			return false, err
		}
		return strings.TrimSpace(string(alarm)) == "1", nil
	}
	return false, nil
}

// OvercurrentCounts returns the USB overcurrent trip count per port, for
// every port exposing one. An empty map means no port has tripped.
func OvercurrentCounts() (map[string]int, error) {
	entries, err := os.ReadDir(USBDevices)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(USBDevices, entry.Name(), "over_current_count"))
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			continue
		}
		if count > 0 {
			counts[entry.Name()] = count
		}
	}
	return counts, nil
}

// Status is a one-shot readout of the power subsystem consumed by the
// warning logic.
type Status struct {
	Brownout     bool
	MaxCurrentMA uint32
	Undervolt    bool
	Overcurrent  bool
}

// ReadStatus captures the full power state in one pass. The device-tree
// reads are required (their absence means non-Pi hardware); the sysfs
// reads degrade to false when unavailable.
func ReadStatus() (Status, error) {
	var st Status
	var err error
	if st.Brownout, err = ResetBrownout(); err != nil {
		return Status{}, err
	}
	if st.MaxCurrentMA, err = PSUMaxCurrent(); err != nil {
		return Status{}, err
	}
	st.Undervolt, _ = Undervolt()
	if counts, err := OvercurrentCounts(); err == nil {
		st.Overcurrent = len(counts) > 0
	}
	return st, nil
}
