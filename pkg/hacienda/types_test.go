package hacienda_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

func TestParseEnvironment(t *testing.T) {
	tests := map[string]hacienda.Environment{
		"":            hacienda.EnvironmentDevelopment,
		"development": hacienda.EnvironmentDevelopment,
		"desarrollo":  hacienda.EnvironmentDevelopment,
		"Production":  hacienda.EnvironmentProduction,
		"produccion":  hacienda.EnvironmentProduction,
	}
	for in, want := range tests {
		got, err := hacienda.ParseEnvironment(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := hacienda.ParseEnvironment("staging")
	assert.Error(t, err)
}

func TestEnvironment_DefaultAPIURL(t *testing.T) {
	assert.Contains(t, hacienda.EnvironmentDevelopment.DefaultAPIURL(), "api-sandbox")
	assert.NotContains(t, hacienda.EnvironmentProduction.DefaultAPIURL(), "sandbox")
}

func TestCertType_Valid(t *testing.T) {
	assert.True(t, hacienda.CertTypeP12.Valid())
	assert.True(t, hacienda.CertTypePEM.Valid())
	assert.False(t, hacienda.CertType("pfx").Valid())
	assert.False(t, hacienda.CertType("").Valid())
}

func TestDocumentResponse_Estado(t *testing.T) {
	var r hacienda.DocumentResponse
	require.NoError(t, json.Unmarshal([]byte(`{"clave":"1","fecha":"f","estado":"rechazado","otro":1}`), &r))
	assert.Equal(t, hacienda.EstadoRechazado, r.Estado)

	err := json.Unmarshal([]byte(`{"estado":"perdido"}`), &r)
	assert.ErrorIs(t, err, hacienda.ErrUnknownEstado)

	out, err := json.Marshal(hacienda.DocumentResponse{Clave: "1", Fecha: "f", Estado: hacienda.EstadoAceptado})
	require.NoError(t, err)
	assert.JSONEq(t, `{"clave":"1","fecha":"f","estado":"aceptado"}`, string(out))
}
