package classes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOrganization indicates the organization code is not one of the supported codes
	ErrInvalidOrganization = errors.New("invalid organization")
	// ErrInvalidClassSelection indicates the class letters are empty or not valid for the organization
	ErrInvalidClassSelection = errors.New("invalid class selection")
)

// ValidationError describes bad user input. Kind is one of the sentinel errors above
// and is matched by errors.Is.
type ValidationError struct {
	Kind         error
	Input        string
	ValidLetters []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrInvalidOrganization:
		return fmt.Sprintf("%q is an invalid selection, please choose %s", e.Input, strings.Join(Codes(), " or "))
	case ErrInvalidClassSelection:
		return fmt.Sprintf("%q is an invalid selection, please choose %s", e.Input, strings.Join(e.ValidLetters, " or "))
	default:
		return fmt.Sprintf("invalid selection %q", e.Input)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}
