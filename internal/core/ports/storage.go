package ports

import "context"

// Persisted key layout. All three keys are cleared together (sequentially) on
// logout or forced teardown; there is no transaction across them.
const (
	KeyAuthToken       = "auth_token"
	KeyAuthUser        = "auth_user"
	KeySelectedEmpresa = "selected_empresa"
)

// Storage is the key-value adapter behind which every persisted session and
// tenant read/write happens. Implementations are last-writer-wins.
type Storage interface {
	// Get returns the stored value, or domain.ErrKeyNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
