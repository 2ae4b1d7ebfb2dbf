package hacienda

import (
	"errors"
	"fmt"
)

// Errores del cliente y del firmador (usar errors.Is).
var (
	ErrInvalidXML       = errors.New("Invalid XML")
	ErrInvalidOptions   = errors.New("Invalid options")
	ErrCertTypeRequired = errors.New("Certificate type is required")
	ErrCertPathRequired = errors.New("Certificate path is required")
	ErrInvalidCertType  = errors.New("Invalid certificate type")
	ErrFileNotFound     = errors.New("File not found")

	ErrNoToken          = errors.New("no token provided")
	ErrEmptyAccessToken = errors.New("token response without access_token")
	ErrUnknownEstado    = errors.New("unknown estado")
	ErrEmptyResponse    = errors.New("empty response body")
)

// APIError respuesta HTTP fuera del rango 2xx.
type APIError struct {
	StatusCode int
	Cause      string // Cabecera X-Error-Cause que envía Hacienda (puede ser vacía)
	Body       string
}

func (e *APIError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}
