// Servicio de firma XMLDSig envuelta (enveloped) para comprobantes electrónicos.
// La canonicalización y el cálculo de la firma los hace goxmldsig.

package signer

import (
	"bytes"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

// DigitalSignatureService firma documentos XML con el certificado del emisor.
type DigitalSignatureService struct {
	log zerolog.Logger
}

// NewDigitalSignatureService crea el servicio.
func NewDigitalSignatureService(log zerolog.Logger) *DigitalSignatureService {
	return &DigitalSignatureService{log: log}
}

// SignXML atajo sin logger de DigitalSignatureService.Sign.
func SignXML(xmlStr string, opts *hacienda.SignatureOptions) (string, error) {
	return NewDigitalSignatureService(zerolog.Nop()).Sign(xmlStr, opts)
}

// Sign valida las opciones, carga el certificado y devuelve el XML con ds:Signature
// como último hijo de la raíz. Las opciones se validan antes de tocar el disco.
//
// El documento devuelto es la forma canónica (C14N) de la entrada: sin
// comentarios, con CDATA expandido y atributos ordenados.
func (s *DigitalSignatureService) Sign(xmlStr string, opts *hacienda.SignatureOptions) (string, error) {
	if xmlStr == "" {
		return "", hacienda.ErrInvalidXML
	}
	if err := validateOptions(opts); err != nil {
		return "", err
	}
	cert, err := LoadCertificate(opts)
	if err != nil {
		return "", err
	}
	s.log.Debug().
		Str("cert_type", string(opts.CertType)).
		Str("subject", cert.Leaf.Subject.String()).
		Msg("signer: certificado cargado")
	return s.SignWithCertificate(xmlStr, cert)
}

// SignWithCertificate firma con un certificado ya cargado (llave RSA obligatoria).
func (s *DigitalSignatureService) SignWithCertificate(xmlStr string, cert tls.Certificate) (string, error) {
	if xmlStr == "" {
		return "", hacienda.ErrInvalidXML
	}
	if len(cert.Certificate) == 0 {
		return "", fmt.Errorf("signer: certificado vacío")
	}
	if _, ok := cert.PrivateKey.(*rsa.PrivateKey); !ok {
		return "", fmt.Errorf("signer: el certificado debe incluir llave privada RSA")
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = hacienda.CharsetReader
	if err := doc.ReadFromBytes(canonicalizeXML([]byte(xmlStr))); err != nil {
		return "", fmt.Errorf("signer: parsear XML: %w", err)
	}
	if n := len(doc.ChildElements()); n != 1 {
		return "", fmt.Errorf("signer: parsear XML: se esperaba un elemento raíz, hay %d", n)
	}
	root := doc.Root()

	ctx := dsig.NewDefaultSigningContext(dsig.TLSCertKeyStore(cert))
	ctx.Prefix = SignaturePrefix
	// Sin atributo de id la referencia siempre es URI="" (documento completo).
	ctx.IdAttribute = ""
	ctx.Canonicalizer = dsig.MakeC14N10RecCanonicalizer()
	if err := ctx.SetSignatureMethod(AlgRSASHA256); err != nil {
		return "", err
	}

	signed, err := ctx.SignEnveloped(root)
	if err != nil {
		return "", err
	}

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.SetRoot(signed)
	str, err := out.WriteToString()
	if err != nil {
		return "", fmt.Errorf("signer: serializar XML firmado: %w", err)
	}
	s.log.Debug().Str("root", root.Tag).Int("bytes", len(str)).Msg("signer: documento firmado")
	return str, nil
}

// VerifyXML valida la firma envuelta contra el certificado esperado.
func VerifyXML(signedXML string, cert *x509.Certificate) error {
	if signedXML == "" {
		return hacienda.ErrInvalidXML
	}
	if cert == nil {
		return fmt.Errorf("signer: certificado requerido para verificar")
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = hacienda.CharsetReader
	if err := doc.ReadFromString(signedXML); err != nil {
		return fmt.Errorf("signer: parsear XML: %w", err)
	}
	if doc.Root() == nil {
		return fmt.Errorf("signer: documento sin raíz")
	}
	ctx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{cert},
	})
	if _, err := ctx.Validate(doc.Root()); err != nil {
		return fmt.Errorf("signer: firma inválida: %w", err)
	}
	return nil
}

// canonicalizeXML normaliza el documento con C14N inclusivo. Si el decoder no
// puede procesarlo (p. ej. charset distinto de UTF-8) se usa el original.
func canonicalizeXML(data []byte) []byte {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil || len(out) == 0 {
		return data
	}
	return out
}

func validateOptions(opts *hacienda.SignatureOptions) error {
	switch {
	case opts == nil:
		return hacienda.ErrInvalidOptions
	case opts.CertType == "":
		return hacienda.ErrCertTypeRequired
	case opts.CertPath == "":
		return hacienda.ErrCertPathRequired
	case !opts.CertType.Valid():
		return hacienda.ErrInvalidCertType
	}
	return nil
}
