// Package hacienda implementa el cliente del API de recepción de comprobantes
// electrónicos del Ministerio de Hacienda (Costa Rica): token, envío y consulta
// de estado, más una validación superficial del XML.
package hacienda

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Environment ambiente de Hacienda al que apunta el cliente.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"

	apiURLSandbox    = "https://api-sandbox.comprobanteselectronicos.go.cr/recepcion/v1"
	apiURLProduction = "https://api.comprobanteselectronicos.go.cr/recepcion/v1"
)

// ParseEnvironment acepta los nombres en inglés y los alias "desarrollo"/"produccion".
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "development", "desarrollo", "dev":
		return EnvironmentDevelopment, nil
	case "production", "produccion", "producción", "prod":
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("hacienda: ambiente desconocido %q (usar 'development' o 'production')", s)
	}
}

// DefaultAPIURL devuelve el endpoint de recepción por defecto del ambiente.
func (e Environment) DefaultAPIURL() string {
	if e == EnvironmentProduction {
		return apiURLProduction
	}
	return apiURLSandbox
}

// Config datos de conexión al API. El cliente guarda una copia; no se modifica después.
type Config struct {
	APIURL      string      // URL base del API (vacío = URL por defecto del ambiente)
	ClientID    string      // client_id para el password grant
	Environment Environment // development o production
}

// baseURL resuelve la URL efectiva sin "/" final.
func (c Config) baseURL() string {
	u := c.APIURL
	if u == "" {
		u = c.Environment.DefaultAPIURL()
	}
	return strings.TrimRight(u, "/")
}

// CertType formato del archivo de certificado.
type CertType string

const (
	CertTypeP12 CertType = "p12"
	CertTypePEM CertType = "pem"
)

// Valid indica si el tipo es uno de los soportados.
func (t CertType) Valid() bool {
	return t == CertTypeP12 || t == CertTypePEM
}

// SignatureOptions material criptográfico para firmar un comprobante.
type SignatureOptions struct {
	CertPath string   // Ruta al .p12 o .pem
	Password string   // Contraseña del .p12 (ignorada para PEM sin cifrar)
	CertType CertType // p12 o pem
	KeyPath  string   // Llave privada PEM separada (vacío = misma ruta que CertPath)
}

// Estado estado de procesamiento de un comprobante en Hacienda.
type Estado string

const (
	EstadoAceptado   Estado = "aceptado"
	EstadoRechazado  Estado = "rechazado"
	EstadoProcesando Estado = "procesando"
)

// Valid indica si el estado es uno de los tres conocidos.
func (e Estado) Valid() bool {
	switch e {
	case EstadoAceptado, EstadoRechazado, EstadoProcesando:
		return true
	}
	return false
}

// UnmarshalJSON rechaza estados fuera del catálogo.
func (e *Estado) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Estado(s)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEstado, s)
	}
	*e = v
	return nil
}

// DocumentResponse respuesta de recepción o de consulta de estado.
type DocumentResponse struct {
	Clave   string `json:"clave" yaml:"clave"`                         // Clave numérica del comprobante (50 dígitos)
	Fecha   string `json:"fecha" yaml:"fecha"`                         // Fecha ISO-8601
	Estado  Estado `json:"estado" yaml:"estado"`                       // aceptado, rechazado o procesando
	Mensaje string `json:"mensaje,omitempty" yaml:"mensaje,omitempty"` // Mensaje opcional de Hacienda
}
