package srv

import (
	"context"
	"errors"
)

// cleanupService closes resources that have no lifecycle of their own.
type cleanupService struct {
	closers []func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

// Shutdown runs every closer in reverse order and joins their errors.
func (c *cleanupService) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if c.closers[i] == nil {
			continue
		}
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewCleanup(closers ...func() error) Service {
	return &cleanupService{closers: closers}
}
