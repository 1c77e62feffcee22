package postgres

import (
	"fmt"

	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// storageError wraps an unexpected database error under the
// ErrDatabaseOperation sentinel so callers can match the kind while the
// logged error keeps the underlying cause
func storageError(err error) error {
	return fmt.Errorf("%w: %v", feederrors.ErrDatabaseOperation, err)
}
