package submission

import (
	"context"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

// DocumentSigner firma el XML del comprobante (implementado por signer.DigitalSignatureService).
type DocumentSigner interface {
	Sign(xml string, opts *hacienda.SignatureOptions) (string, error)
}

// ReceptionAPI operaciones del API de recepción (implementado por *hacienda.Client).
type ReceptionAPI interface {
	GetToken(ctx context.Context, username, password string) (string, error)
	SendDocument(ctx context.Context, documentXML, token string) (*hacienda.DocumentResponse, error)
	CheckStatus(ctx context.Context, clave, token string) (*hacienda.DocumentResponse, error)
	Token() string
}

// Credentials usuario y contraseña del password grant.
type Credentials struct {
	Username string
	Password string
}
