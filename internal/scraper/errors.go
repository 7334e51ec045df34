package scraper

import (
	"errors"
	"fmt"
)

var (
	ErrElementNotFound  = errors.New("element not found")
	ErrOptionOutOfRange = errors.New("date option out of range")
	ErrValueMismatch    = errors.New("field value not applied")
)

// PermanentError marks a failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}

// StepError is returned when a required step fails after all its attempts.
type StepError struct {
	Step     string
	Attempts int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Step, e.Attempts, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func NewStepError(step string, attempts int, err error) *StepError {
	return &StepError{
		Step:     step,
		Attempts: attempts,
		Err:      err,
	}
}
