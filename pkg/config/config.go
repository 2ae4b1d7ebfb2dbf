package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

// Config agrupa la configuración del CLI (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Hacienda HaciendaConfig
	Cert     CertConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development -> consola legible; production -> JSON
	LogLevel string // trace, debug, info, warn, error
}

// HaciendaConfig acceso al API de recepción.
type HaciendaConfig struct {
	APIURL      string // Vacío = URL por defecto del ambiente
	ClientID    string // api-stag (pruebas) o api-prod
	Environment string // development | production (acepta desarrollo/produccion)
	Username    string
	Password    string
	Timeout     time.Duration // 0 = sin timeout
}

// CertConfig certificado de firma del emisor.
type CertConfig struct {
	Path     string // Ruta al .p12 o .pem
	Password string // Contraseña del .p12
	Type     string // p12 | pem
	KeyPath  string // Llave PEM separada (opcional)
}

// Client construye la configuración del cliente del API.
func (c HaciendaConfig) Client() (hacienda.Config, error) {
	env, err := hacienda.ParseEnvironment(c.Environment)
	if err != nil {
		return hacienda.Config{}, err
	}
	return hacienda.Config{
		APIURL:      c.APIURL,
		ClientID:    c.ClientID,
		Environment: env,
	}, nil
}

// SignatureOptions opciones de firma a partir del certificado configurado.
func (c CertConfig) SignatureOptions() *hacienda.SignatureOptions {
	return &hacienda.SignatureOptions{
		CertPath: c.Path,
		Password: c.Password,
		CertType: hacienda.CertType(strings.ToLower(c.Type)),
		KeyPath:  c.KeyPath,
	}
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: HACIENDA_API_URL, HACIENDA_CLIENT_ID,
// HACIENDA_USERNAME, CERT_PATH, CERT_PASSWORD, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio actual
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	timeout, err := getInt(v, "HTTP_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Hacienda: HaciendaConfig{
			APIURL:      getString(v, "HACIENDA_API_URL", ""),
			ClientID:    getString(v, "HACIENDA_CLIENT_ID", "api-stag"),
			Environment: getString(v, "HACIENDA_ENVIRONMENT", "development"),
			Username:    getString(v, "HACIENDA_USERNAME", ""),
			Password:    getString(v, "HACIENDA_PASSWORD", ""),
			Timeout:     time.Duration(timeout) * time.Second,
		},
		Cert: CertConfig{
			Path:     getString(v, "CERT_PATH", "./certificado.p12"),
			Password: getString(v, "CERT_PASSWORD", ""),
			Type:     getString(v, "CERT_TYPE", "p12"),
			KeyPath:  getString(v, "CERT_KEY_PATH", ""),
		},
	}

	if _, err := hacienda.ParseEnvironment(cfg.Hacienda.Environment); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) (int, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return 0, fmt.Errorf("config: %s debe ser entero: %w", key, err)
		}
		return n, nil
	default:
		return v.GetInt(key), nil
	}
}
