package configw

import (
	"os"
	"path/filepath"

	"github.com/AndreeJait/email-storm/errow"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ConfigMode string

type LocationMap map[ConfigMode]string

type ConfigW[T interface{}] struct {
	ConfigLocations LocationMap
	ConfigMode      ConfigMode
}

func (cfgw ConfigW[T]) location() (string, error) {
	val, ok := cfgw.ConfigLocations[cfgw.ConfigMode]
	if !ok {
		return "", errow.ErrConfigNotFound
	}
	return filepath.Abs(val)
}

func (cfgw ConfigW[T]) LoadConfig() (cfg *T, err error) {
	cfg = new(T)
	if err = cfgw.LoadInto(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the YAML file of the active mode over cfg, so fields the
// file omits keep whatever cfg already held.
func (cfgw ConfigW[T]) LoadInto(cfg *T) error {
	fileName, err := cfgw.location()
	if err != nil {
		return err
	}
	fileYaml, err := os.ReadFile(fileName)
	if err != nil {
		return errors.Wrapf(err, "read config %s", fileName)
	}
	if err = yaml.Unmarshal(fileYaml, cfg); err != nil {
		return errors.Wrapf(err, "decode config %s", fileName)
	}
	return nil
}

// Exists reports whether the active mode points at a file on disk.
func (cfgw ConfigW[T]) Exists() bool {
	fileName, err := cfgw.location()
	if err != nil {
		return false
	}
	_, err = os.Stat(fileName)
	return err == nil
}

func New[T interface{}](configLocations LocationMap, configMode ConfigMode) ConfigW[T] {
	return ConfigW[T]{
		ConfigLocations: configLocations,
		ConfigMode:      configMode,
	}
}

// LoadEnvFile loads .env style files into the process environment. Missing
// files are not an error; variables already set are left untouched.
func LoadEnvFile(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return errors.WithStack(godotenv.Load(existing...))
}
