package cli

import (
	"errors"
	"fmt"

	"github.com/example/modflag/internal/ports/primary"
)

// describeError adds a short hint to errors returned by the services.
func describeError(err error) error {
	var verr *primary.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return fmt.Errorf("%w\n  Hint: pass a value for %s", err, verr.Field)
	case errors.Is(err, primary.ErrEscalationIncomplete):
		return fmt.Errorf("%w\n  Hint: the flag is stored; moderators may not have been notified", err)
	case errors.Is(err, primary.ErrAlreadyReported):
		return fmt.Errorf("%w\n  Hint: each user can flag a message once", err)
	case errors.Is(err, primary.ErrNotFound):
		return fmt.Errorf("%w\n  Hint: check the id with 'modflag inbox list <owner-id>'", err)
	default:
		return err
	}
}
