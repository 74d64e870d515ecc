package directory

import (
	"errors"
	"fmt"
)

// ErrOrganizationNotFound indicates the hierarchy has no organization with the requested name
var ErrOrganizationNotFound = errors.New("organization not found")

// DirectoryError is returned when the directory answers with a non-2xx status.
type DirectoryError struct {
	Status     int
	StatusText string
	Path       string
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory request %s failed: %d %s", e.Path, e.Status, e.StatusText)
}
