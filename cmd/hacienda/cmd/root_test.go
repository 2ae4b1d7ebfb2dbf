package cmd

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

const (
	testClave = "50601011800310174000100100001010000000011199999999"
	testXML   = `<?xml version="1.0" encoding="utf-8"?>
<FacturaElectronica xmlns="https://cdn.comprobanteselectronicos.go.cr/xml-schemas/v4.3/facturaElectronica">
  <Clave>` + testClave + `</Clave>
</FacturaElectronica>`
)

// run ejecuta el CLI en un directorio temporal aislado y devuelve stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("LOG_LEVEL", "disabled")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeTestCert escribe un PEM autofirmado (certificado + llave RSA).
func writeTestCert(t *testing.T, dir string) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "EMISOR CLI"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	data = append(data, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})...)
	return writeFile(t, dir, "cert.pem", string(data))
}

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/token":
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "T"})
		case r.Header.Get("Authorization") != "Bearer T":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			_ = json.NewEncoder(w).Encode(hacienda.DocumentResponse{
				Clave:   testClave,
				Fecha:   "2025-05-13T22:00:00-06:00",
				Estado:  hacienda.EstadoAceptado,
				Mensaje: "Documento procesado correctamente",
			})
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv("HACIENDA_API_URL", srv.URL)
	t.Setenv("HACIENDA_USERNAME", "user")
	t.Setenv("HACIENDA_PASSWORD", "pass")
	return srv
}

func TestValidateCmd(t *testing.T) {
	dir := isolate(t)
	ok := writeFile(t, dir, "ok.xml", testXML)
	bad := writeFile(t, dir, "bad.xml", `<OtroDocumento><Clave>1</Clave></OtroDocumento>`)

	out, err := run(t, "validate", ok)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, "validate", bad)
	require.Error(t, err)
	assert.Equal(t, "false\n", out)
}

func TestTokenCmd(t *testing.T) {
	isolate(t)
	fakeServer(t)

	out, err := run(t, "token", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"T"}`, out)
}

func TestSendCmd_FirmaYEnvia(t *testing.T) {
	dir := isolate(t)
	fakeServer(t)
	t.Setenv("CERT_PATH", writeTestCert(t, dir))
	t.Setenv("CERT_TYPE", "pem")
	doc := writeFile(t, dir, "factura.xml", testXML)

	out, err := run(t, "send", doc, "--sign")
	require.NoError(t, err)
	assert.Contains(t, out, "Clave:   "+testClave)
	assert.Contains(t, out, "aceptado")
	assert.Contains(t, out, "Documento procesado correctamente")
}

func TestSendCmd_TokenInvalido(t *testing.T) {
	dir := isolate(t)
	fakeServer(t)
	doc := writeFile(t, dir, "factura.xml", testXML)

	_, err := run(t, "send", doc, "--token", "otro")
	var apiErr *hacienda.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestStatusCmd_YAML(t *testing.T) {
	isolate(t)
	fakeServer(t)

	out, err := run(t, "status", testClave, "-o", "yaml")
	require.NoError(t, err)

	var resp hacienda.DocumentResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, testClave, resp.Clave)
	assert.Equal(t, hacienda.EstadoAceptado, resp.Estado)
}

func TestStatusCmd_SinCredenciales(t *testing.T) {
	isolate(t)
	t.Setenv("HACIENDA_API_URL", "http://127.0.0.1:1")
	t.Setenv("HACIENDA_USERNAME", "")

	_, err := run(t, "status", testClave)
	require.ErrorIs(t, err, hacienda.ErrNoToken)
}

func TestSignYVerifyCmd(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CERT_PATH", writeTestCert(t, dir))
	t.Setenv("CERT_TYPE", "pem")
	doc := writeFile(t, dir, "factura.xml", testXML)
	signedPath := filepath.Join(dir, "firmada.xml")

	_, err := run(t, "sign", doc, "-w", signedPath)
	require.NoError(t, err)

	signed, err := os.ReadFile(signedPath)
	require.NoError(t, err)
	assert.Contains(t, string(signed), "<ds:Signature")

	out, err := run(t, "verify", signedPath)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestSignCmd_CertificadoNoEncontrado(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CERT_PATH", filepath.Join(dir, "no-existe.p12"))
	doc := writeFile(t, dir, "factura.xml", testXML)

	_, err := run(t, "sign", doc)
	require.ErrorIs(t, err, hacienda.ErrFileNotFound)
}

func TestCertCmd(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CERT_PATH", writeTestCert(t, dir))
	t.Setenv("CERT_TYPE", "pem")

	out, err := run(t, "cert", "-o", "json")
	require.NoError(t, err)

	var info certInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "CN=EMISOR CLI", info.Subject)
	assert.Equal(t, "2a", info.Serial)
	assert.False(t, info.Expired)
}

func TestEnvFile(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "desde-env-file"})
	}))
	t.Cleanup(srv.Close)
	env := writeFile(t, dir, "hacienda.env", "HACIENDA_API_URL="+srv.URL+"\nHACIENDA_USERNAME=u\n")
	// godotenv no pisa variables existentes; limpiarlas tras el test.
	for _, k := range []string{"HACIENDA_API_URL", "HACIENDA_USERNAME"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	out, err := run(t, "--env-file", env, "token")
	require.NoError(t, err)
	assert.Equal(t, "desde-env-file\n", out)
}

func TestOutputDesconocido(t *testing.T) {
	dir := isolate(t)
	doc := writeFile(t, dir, "factura.xml", testXML)

	_, err := run(t, "validate", doc, "-o", "xml")
	require.Error(t, err)
}

// chdir cambia el directorio de trabajo y lo restaura al terminar la prueba
// (equivalente a testing.T.Chdir, disponible solo desde Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
