package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// withTimeout bounds an external call. A non-positive timeout leaves the
// parent deadline in charge.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// validationError flattens validator output into one error wrapping kind.
func validationError(kind, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", kind, err)
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", kind, strings.Join(parts, "; "))
}

// lastMessages returns at most n trailing messages.
func lastMessages(history []domain.Message, n int) []domain.Message {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
