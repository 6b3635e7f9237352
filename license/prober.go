package license

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Prober reads the hardware identifiers the system id is derived from.
type Prober interface {
	MotherboardSerial(ctx context.Context) (string, error)
	ProcessorID(ctx context.Context) (string, error)
}

type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

// SystemProber asks the operating system. Windows goes through PowerShell
// with a wmic fallback, Linux reads DMI and /proc/cpuinfo, macOS uses ioreg
// and sysctl.
type SystemProber struct {
	goos     string
	run      commandRunner
	readFile func(name string) ([]byte, error)
}

func NewSystemProber() *SystemProber {
	return &SystemProber{
		goos:     runtime.GOOS,
		run:      runCommand,
		readFile: os.ReadFile,
	}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", errors.Wrapf(err, "run %s", name)
	}
	return string(out), nil
}

func (p *SystemProber) MotherboardSerial(ctx context.Context) (string, error) {
	switch p.goos {
	case "windows":
		return p.windowsValue(ctx, "(Get-WmiObject Win32_BaseBoard).SerialNumber", "baseboard", "serialnumber")
	case "darwin":
		out, err := p.run(ctx, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice")
		if err != nil {
			return "", err
		}
		return ioregValue(out, "IOPlatformSerialNumber")
	default:
		for _, path := range []string{"/sys/class/dmi/id/board_serial", "/sys/class/dmi/id/product_uuid", "/etc/machine-id"} {
			if data, err := p.readFile(path); err == nil {
				if v := strings.TrimSpace(string(data)); v != "" {
					return v, nil
				}
			}
		}
		return "", errors.New("motherboard serial not readable")
	}
}

func (p *SystemProber) ProcessorID(ctx context.Context) (string, error) {
	switch p.goos {
	case "windows":
		return p.windowsValue(ctx, "(Get-WmiObject Win32_Processor).ProcessorId", "cpu", "processorId")
	case "darwin":
		out, err := p.run(ctx, "sysctl", "-n", "machdep.cpu.brand_string", "machdep.cpu.signature")
		if err != nil {
			return "", err
		}
		return firstNonEmpty(strings.Join(strings.Fields(out), " "))
	default:
		data, err := p.readFile("/proc/cpuinfo")
		if err != nil {
			return "", errors.Wrap(err, "read /proc/cpuinfo")
		}
		return cpuinfoID(data)
	}
}

// windowsValue tries PowerShell first and falls back to wmic, whose output
// carries a header line before the value.
func (p *SystemProber) windowsValue(ctx context.Context, psQuery, wmicClass, wmicField string) (string, error) {
	if out, err := p.run(ctx, "powershell.exe", "-Command", psQuery); err == nil {
		if v := strings.TrimSpace(out); v != "" {
			return v, nil
		}
	}
	out, err := p.run(ctx, "wmic", wmicClass, "get", wmicField)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.ReplaceAll(out, "\r", ""), "\n")
	if len(lines) < 2 {
		return "", errors.Errorf("unexpected wmic output for %s", wmicClass)
	}
	return firstNonEmpty(strings.TrimSpace(lines[1]))
}

func ioregValue(out, key string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, `"`+key+`"`) {
			continue
		}
		if i := strings.Index(line, "="); i >= 0 {
			return firstNonEmpty(strings.Trim(strings.TrimSpace(line[i+1:]), `"`))
		}
	}
	return "", errors.Errorf("%s not found", key)
}

// cpuinfoID builds a stable processor identity from the first CPU block.
func cpuinfoID(data []byte) (string, error) {
	wanted := []string{"vendor_id", "cpu family", "model", "stepping", "Serial", "CPU implementer", "CPU part"}
	values := map[string]string{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" && len(values) > 0 {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, seen := values[key]; !seen {
			values[key] = strings.TrimSpace(value)
		}
	}

	var parts []string
	for _, k := range wanted {
		if v := values[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return firstNonEmpty(strings.Join(parts, "-"))
}

func firstNonEmpty(v string) (string, error) {
	if v == "" {
		return "", errors.New("empty hardware identifier")
	}
	return v, nil
}
