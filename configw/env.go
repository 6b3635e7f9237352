package configw

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// EnvBinding points an environment variable at a config field. Target must be
// a *string, *int, *bool or *time.Duration.
type EnvBinding struct {
	Key    string
	Target interface{}
}

func Bind(key string, target interface{}) EnvBinding {
	return EnvBinding{Key: key, Target: target}
}

// ApplyEnv overwrites each bound field whose variable is set and non-empty.
func ApplyEnv(bindings ...EnvBinding) error {
	for _, b := range bindings {
		raw, ok := os.LookupEnv(b.Key)
		if !ok || raw == "" {
			continue
		}
		if err := assign(b.Target, raw); err != nil {
			return errors.Wrapf(err, "env %s", b.Key)
		}
	}
	return nil
}

func assign(target interface{}, raw string) error {
	switch t := target.(type) {
	case *string:
		*t = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return errors.WithStack(err)
		}
		*t = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.WithStack(err)
		}
		*t = v
	case *time.Duration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return errors.WithStack(err)
		}
		*t = v
	default:
		return errors.Errorf("unsupported target %T", target)
	}
	return nil
}
