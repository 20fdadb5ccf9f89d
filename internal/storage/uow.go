package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// WithUnitOfWork runs fn inside one unit of work. The unit is committed when
// fn returns nil and rolled back when fn returns an error or panics; a panic
// is re-raised after the rollback.
func WithUnitOfWork(ctx context.Context, s Store, fn func(UnitOfWork) error) (err error) {
	uow, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := uow.Rollback(); rbErr != nil {
				log.Printf("storage: rollback after panic failed err=%v", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
