package account

import "context"

// Store persists the list of saved sender accounts. Save replaces the whole
// list; Load returns an empty list when nothing has been saved yet.
type Store interface {
	Save(ctx context.Context, accounts []Account) error
	Load(ctx context.Context) ([]Account, error)
}
