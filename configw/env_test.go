package configw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("STORM_HOST", "0.0.0.0")
	t.Setenv("STORM_PORT", "9000")
	t.Setenv("STORM_ENFORCE", "true")
	t.Setenv("STORM_TIMEOUT", "45s")
	t.Setenv("STORM_EMPTY", "")

	var (
		host    = "127.0.0.1"
		port    = 8000
		enforce bool
		timeout = time.Minute
		empty   = "keep"
		unset   = "keep"
	)
	err := ApplyEnv(
		Bind("STORM_HOST", &host),
		Bind("STORM_PORT", &port),
		Bind("STORM_ENFORCE", &enforce),
		Bind("STORM_TIMEOUT", &timeout),
		Bind("STORM_EMPTY", &empty),
		Bind("STORM_UNSET", &unset),
	)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", host)
	assert.Equal(t, 9000, port)
	assert.True(t, enforce)
	assert.Equal(t, 45*time.Second, timeout)
	assert.Equal(t, "keep", empty)
	assert.Equal(t, "keep", unset)
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		target interface{}
	}{
		{name: "bad int", value: "abc", target: new(int)},
		{name: "bad bool", value: "maybe", target: new(bool)},
		{name: "bad duration", value: "5 minutes", target: new(time.Duration)},
		{name: "unsupported", value: "1.5", target: new(float64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORM_VALUE", tt.value)
			err := ApplyEnv(Bind("STORM_VALUE", tt.target))
			assert.ErrorContains(t, err, "STORM_VALUE")
		})
	}
}
