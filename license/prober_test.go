package license

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner map[string]string

func (f fakeRunner) run(_ context.Context, name string, args ...string) (string, error) {
	out, ok := f[name]
	if !ok {
		return "", errors.Errorf("%s: not found", name)
	}
	return out, nil
}

func TestSystemProberWindows(t *testing.T) {
	t.Run("powershell", func(t *testing.T) {
		p := &SystemProber{goos: "windows", run: fakeRunner{"powershell.exe": "  PF2XYZ12 \r\n"}.run}
		serial, err := p.MotherboardSerial(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "PF2XYZ12", serial)
	})

	t.Run("wmic fallback", func(t *testing.T) {
		p := &SystemProber{goos: "windows", run: fakeRunner{"wmic": "ProcessorId\r\nBFEBFBFF000906EA  \r\n\r\n"}.run}
		id, err := p.ProcessorID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "BFEBFBFF000906EA", id)
	})

	t.Run("nothing available", func(t *testing.T) {
		p := &SystemProber{goos: "windows", run: fakeRunner{}.run}
		_, err := p.ProcessorID(context.Background())
		assert.Error(t, err)
	})

	t.Run("blank wmic value", func(t *testing.T) {
		p := &SystemProber{goos: "windows", run: fakeRunner{"wmic": "SerialNumber\r\n   \r\n"}.run}
		_, err := p.MotherboardSerial(context.Background())
		assert.Error(t, err)
	})
}

func TestSystemProberDarwin(t *testing.T) {
	ioreg := `+-o Root  <class IOPlatformExpertDevice>
    "IOPlatformUUID" = "1234"
    "IOPlatformSerialNumber" = "C02XK0JHJG5J"
`
	p := &SystemProber{goos: "darwin", run: fakeRunner{
		"ioreg":  ioreg,
		"sysctl": "Intel(R) Core(TM) i7\n591594\n",
	}.run}

	serial, err := p.MotherboardSerial(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "C02XK0JHJG5J", serial)

	id, err := p.ProcessorID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Intel(R) Core(TM) i7 591594", id)
}

func TestSystemProberLinux(t *testing.T) {
	files := map[string]string{
		"/sys/class/dmi/id/product_uuid": "4C4C4544-0042\n",
		"/proc/cpuinfo": strings.Join([]string{
			"processor\t: 0",
			"vendor_id\t: GenuineIntel",
			"cpu family\t: 6",
			"model\t\t: 158",
			"stepping\t: 10",
			"",
			"processor\t: 1",
			"vendor_id\t: Other",
		}, "\n"),
	}
	p := &SystemProber{goos: "linux", readFile: func(name string) ([]byte, error) {
		if v, ok := files[name]; ok {
			return []byte(v), nil
		}
		return nil, os.ErrNotExist
	}}

	serial, err := p.MotherboardSerial(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4C4C4544-0042", serial)

	id, err := p.ProcessorID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GenuineIntel-6-158-10", id)
}

func TestSystemProberLinuxUnreadable(t *testing.T) {
	p := &SystemProber{goos: "linux", readFile: func(string) ([]byte, error) {
		return nil, os.ErrPermission
	}}
	_, err := p.MotherboardSerial(context.Background())
	assert.Error(t, err)
	_, err = p.ProcessorID(context.Background())
	assert.Error(t, err)
}
