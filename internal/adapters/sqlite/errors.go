package sqlite

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/devagent/internal/db"
	"github.com/example/devagent/internal/ports/secondary"
)

// mapError translates driver errors into the storage sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if busy := db.MapBusy(err); busy != err {
		return busy
	}

	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}

	switch se.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", secondary.ErrDuplicateID, err)
	case sqlite3.ErrConstraintUnique:
		return fmt.Errorf("%w: %v", secondary.ErrConflict, err)
	}
	return err
}
