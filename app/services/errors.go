package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindAvailability ErrorKind = "availability"
	KindRemote       ErrorKind = "remote"
	KindTerminal     ErrorKind = "terminal"
)

var (
	ErrCheckoutCompleted = errors.New("checkout already completed")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentNotReady   = errors.New("online payment not configured")
)

// CheckoutError never leaves the session in a different step than before the call.
type CheckoutError struct {
	Kind    ErrorKind
	Message string
	Details any
	Cause   error
}

func (e *CheckoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Cause
}

func (e *CheckoutError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAvailability, KindTerminal:
		return http.StatusConflict
	case KindRemote:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func validationError(msg string) *CheckoutError {
	return &CheckoutError{Kind: KindValidation, Message: msg}
}

func remoteError(msg string, cause error) *CheckoutError {
	return &CheckoutError{Kind: KindRemote, Message: msg, Cause: cause}
}

func terminalError() *CheckoutError {
	return &CheckoutError{Kind: KindTerminal, Message: "order already placed", Cause: ErrCheckoutCompleted}
}

func AsCheckoutError(err error) *CheckoutError {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

func IsKind(err error, kind ErrorKind) bool {
	ce := AsCheckoutError(err)
	return ce != nil && ce.Kind == kind
}

// backendFailure surfaces the backend's own message when it sent one.
func backendFailure(action string, err error) *CheckoutError {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return remoteError(be.Message, err)
	}
	return remoteError(action, err)
}

func availabilityError(report AvailabilityReport) *CheckoutError {
	msg := "some items are not available right now"
	if report.AllAvailable && !report.AllInStock {
		msg = "some items are out of stock"
	}
	return &CheckoutError{Kind: KindAvailability, Message: msg, Details: report.Items}
}
