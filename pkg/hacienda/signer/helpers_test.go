package signer_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

const (
	testClave    = "50601011800310174000100100001010000000011199999999"
	testPassword = "test123"
)

var facturaXML = `<?xml version="1.0" encoding="utf-8"?>
<FacturaElectronica xmlns="https://cdn.comprobanteselectronicos.go.cr/xml-schemas/v4.3/facturaElectronica">
  <Clave>` + testClave + `</Clave>
  <NumeroConsecutivo>00100001010000000011</NumeroConsecutivo>
  <FechaEmision>2025-05-13T22:00:00-06:00</FechaEmision>
</FacturaElectronica>`

// testCert certificado autofirmado con su llave.
type testCert struct {
	cert *x509.Certificate
	key  crypto.Signer
}

func newRSACert(t *testing.T) testCert {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return selfSign(t, key)
}

func newECDSACert(t *testing.T) testCert {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return selfSign(t, key)
}

func selfSign(t *testing.T, key crypto.Signer) testCert {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject: pkix.Name{
			CommonName:   "EMISOR DE PRUEBA",
			Organization: []string{"Contribuyente S.A."},
			Country:      []string{"CR"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return testCert{cert: cert, key: key}
}

func (c testCert) certPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.cert.Raw})
}

func (c testCert) keyPEM(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(c.key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// writePEM escribe certificado y llave en un solo archivo.
func (c testCert) writePEM(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cert.pem")
	data := append(c.certPEM(), c.keyPEM(t)...)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// writeSplitPEM escribe certificado y llave en archivos separados.
func (c testCert) writeSplitPEM(t *testing.T) (certPath, keyPath string) {
	t.Helper()
	dir := t.TempDir()
	certPath = filepath.Join(dir, "cert.pem")
	keyPath = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, c.certPEM(), 0o600))
	require.NoError(t, os.WriteFile(keyPath, c.keyPEM(t), 0o600))
	return certPath, keyPath
}

func (c testCert) writeP12(t *testing.T, password string) string {
	t.Helper()
	data, err := gopkcs12.LegacyDES.Encode(c.key, c.cert, nil, password)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cert.p12")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
