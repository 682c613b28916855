// Package revocation lists access-token jtis revoked by logout until the
// token would have expired anyway.
package revocation

import (
	"fmt"
	"time"

	"leadcrm/pkg/platform/sentinel"
)

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
