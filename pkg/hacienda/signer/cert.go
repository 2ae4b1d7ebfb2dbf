// Carga de certificado desde .p12 (PKCS#12) o par PEM.

package signer

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

// LoadCertificate carga el certificado según opts.CertType.
func LoadCertificate(opts *hacienda.SignatureOptions) (tls.Certificate, error) {
	if err := validateOptions(opts); err != nil {
		return tls.Certificate{}, err
	}
	switch opts.CertType {
	case hacienda.CertTypeP12:
		return LoadFromP12(opts.CertPath, opts.Password)
	default:
		return LoadFromPEM(opts.CertPath, opts.KeyPath)
	}
}

// LoadFromP12 carga certificado y llave privada desde un archivo .p12/.pfx.
// El password puede ser vacío si el archivo no está protegido.
func LoadFromP12(path, password string) (tls.Certificate, error) {
	data, err := readFile(path)
	if err != nil {
		return tls.Certificate{}, err
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("signer: decodificar p12: %w", err)
	}
	// pkcs12.Decode devuelve solo el certificado hoja; Hacienda no exige la cadena.
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// LoadFromPEM carga certificado y llave PEM. Si keyPath está vacío la llave
// se busca en el mismo archivo del certificado.
func LoadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	certPEM, err := readFile(certPath)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM := certPEM
	if keyPath != "" {
		if keyPEM, err = readFile(keyPath); err != nil {
			return tls.Certificate{}, err
		}
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("signer: cargar PEM: %w", err)
	}
	if cert.Leaf == nil {
		if cert.Leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return tls.Certificate{}, fmt.Errorf("signer: parsear certificado: %w", err)
		}
	}
	return cert, nil
}

// CertificateBase64 DER del certificado hoja en Base64, tal como va en ds:X509Certificate.
func CertificateBase64(cert tls.Certificate) string {
	if len(cert.Certificate) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(cert.Certificate[0])
}

// readFile lee el archivo y normaliza la ausencia del archivo a ErrFileNotFound.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", hacienda.ErrFileNotFound, path)
		}
		return nil, err
	}
	return data, nil
}
