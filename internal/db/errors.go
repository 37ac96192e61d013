package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/devagent/internal/ports/secondary"
)

// MapBusy reports a lock held past the busy timeout as secondary.ErrStorageBusy.
// Other errors are returned unchanged.
func MapBusy(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked {
		return fmt.Errorf("%w: %v", secondary.ErrStorageBusy, err)
	}
	return err
}
