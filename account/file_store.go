package account

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/AndreeJait/email-storm/errow"
	"github.com/pkg/errors"
)

// DefaultFileName is the settings file inside the application data dir.
const DefaultFileName = "email_configs.json"

// FileStore keeps accounts in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(_ context.Context, accounts []Account) error {
	if accounts == nil {
		accounts = []Account{}
	}
	data, err := json.MarshalIndent(accounts, "", "    ")
	if err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".email_configs-*.json")
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WithStack(err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path), "write %s", s.path)
}

func (s *FileStore) Load(_ context.Context) ([]Account, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if errors.Is(err, os.ErrNotExist) {
		return []Account{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	return decodeAccounts(data)
}

func decodeAccounts(data []byte) ([]Account, error) {
	accounts := []Account{}
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, errors.Wrap(errow.ErrConfigFileCorrupt, err.Error())
	}
	return accounts, nil
}
