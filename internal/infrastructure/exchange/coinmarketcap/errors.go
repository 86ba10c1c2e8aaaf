package coinmarketcap

import (
	"errors"
	"fmt"
)

var (
	ErrRequestFailed    = errors.New("coinmarketcap request failed")
	ErrUnexpectedStatus = errors.New("unexpected coinmarketcap HTTP status")
	ErrInvalidResponse  = errors.New("invalid coinmarketcap response")
)

// APIError es un error reportado por el proveedor en el bloque status
type APIError struct {
	Status     Status
	HTTPStatus int
}

func (e *APIError) Error() string {
	return e.Status.String()
}

// StatusOf extrae el Status de un error del proveedor.
// Un error nil equivale a éxito; cualquier otro error no tipado se reporta como código desconocido.
func StatusOf(err error) Status {
	if err == nil {
		return Status{}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return Status{Code: -1, Message: err.Error()}
}

// IsQuotaError reports whether err means the key ran out of credits
func IsQuotaError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status.IsQuotaExceeded()
}

func newAPIError(status Status, httpStatus int) error {
	if status.Code == 0 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, httpStatus)
	}
	return &APIError{Status: status, HTTPStatus: httpStatus}
}
