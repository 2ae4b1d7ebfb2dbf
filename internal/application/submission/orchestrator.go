package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

// ErrInvalidDocument el XML no pasa la validación superficial (raíz o Clave).
var ErrInvalidDocument = errors.New("documento inválido: raíz desconocida o sin Clave")

// Orchestrator orquesta el envío de un comprobante:
//
//	Validación → Firma (opcional) → Token → Envío a /recepcion
//
// Es síncrono: cada paso se ejecuta en la goroutine del llamador y el primer
// error corta el flujo.
type Orchestrator struct {
	api    ReceptionAPI
	signer DocumentSigner // nil = el XML ya viene firmado
	log    zerolog.Logger
}

// NewOrchestrator construye el orquestador. signer puede ser nil.
func NewOrchestrator(api ReceptionAPI, signer DocumentSigner, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{api: api, signer: signer, log: log}
}

// Request datos de un envío.
type Request struct {
	XML         string
	Sign        bool                       // firmar antes de enviar
	SignOptions *hacienda.SignatureOptions // requerido si Sign
	Token       string                     // token explícito; vacío = almacenado o Credentials
	Credentials Credentials
}

// Result resultado del envío.
type Result struct {
	Clave     string // Clave del XML enviado
	SignedXML string
	Response  *hacienda.DocumentResponse
}

// Submit ejecuta el ciclo completo para un documento.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Result, error) {
	if !hacienda.ValidateDocumentXML(req.XML) {
		return nil, ErrInvalidDocument
	}
	clave, err := hacienda.ExtractClave(req.XML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	log := o.log.With().Str("clave", clave).Logger()

	docXML := req.XML
	if req.Sign {
		if o.signer == nil {
			return nil, fmt.Errorf("submission: firma solicitada sin firmador configurado")
		}
		if docXML, err = o.signer.Sign(req.XML, req.SignOptions); err != nil {
			return nil, err
		}
		log.Debug().Msg("submission: documento firmado")
	}

	token, err := o.ensureToken(ctx, req.Token, req.Credentials)
	if err != nil {
		return nil, err
	}

	resp, err := o.api.SendDocument(ctx, docXML, token)
	if err != nil {
		log.Warn().Err(err).Msg("submission: envío fallido")
		return nil, err
	}
	log.Info().Str("estado", string(resp.Estado)).Msg("submission: documento enviado")

	return &Result{Clave: clave, SignedXML: docXML, Response: resp}, nil
}

// Status consulta el estado de una clave con el mismo criterio de token que Submit.
func (o *Orchestrator) Status(ctx context.Context, clave, token string, creds Credentials) (*hacienda.DocumentResponse, error) {
	tok, err := o.ensureToken(ctx, token, creds)
	if err != nil {
		return nil, err
	}
	return o.api.CheckStatus(ctx, clave, tok)
}

// ensureToken devuelve el token explícito, el almacenado en el cliente o uno
// nuevo si hay credenciales. Sin ninguno de los tres devuelve ErrNoToken.
func (o *Orchestrator) ensureToken(ctx context.Context, token string, creds Credentials) (string, error) {
	if token != "" {
		return token, nil
	}
	if t := o.api.Token(); t != "" {
		return t, nil
	}
	if creds.Username == "" {
		return "", hacienda.ErrNoToken
	}
	return o.api.GetToken(ctx, creds.Username, creds.Password)
}
