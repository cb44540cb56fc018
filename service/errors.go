package service

import (
	"errors"
)

// User-facing messages
const (
	MsgInvalidCartURL    = "Invalid cart URL format"
	MsgCartNotFound      = "Cart not found"
	MsgImportFailed      = "Error importing cart"
	MsgNothingToRenew    = "Please select an order or import a cart first"
	MsgCreateFailed      = "Error creating renewal order"
	MsgOrderNotInResults = "Order not found in search results"
	MsgAmountOutOfRange  = "Line item amount is out of range"
	MsgCartOutOfRange    = "Cart totals are out of range"
)

// ErrBusy is returned when a remote action is started while another is in flight
var ErrBusy = errors.New("another action is still processing")

// ErrSessionNotFound is returned for unknown renewal session ids
var ErrSessionNotFound = errors.New("renewal session not found")

// ValidationError is a rejection detected before any remote call.
// Its message is shown to the operator as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// RemoteError wraps a document store failure with a generic operator-facing message
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *RemoteError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsRemote reports whether err is a document store failure
func IsRemote(err error) bool {
	var r *RemoteError
	return errors.As(err, &r)
}

// UserMessage returns the message to show the operator for err
func UserMessage(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var r *RemoteError
	if errors.As(err, &r) {
		return r.Message
	}
	return err.Error()
}
