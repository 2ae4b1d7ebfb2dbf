package hacienda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxResponseBytes = 1 << 20 // 1 MiB

// Client cliente REST del API de recepción. Conserva el último token obtenido
// con GetToken; cada instancia es independiente.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client usado para las llamadas.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger inyecta el logger (por defecto zerolog.Nop).
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout fija el timeout del http.Client. 0 = sin timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient construye el cliente. Sin opciones no se configura timeout y se usa
// el transporte por defecto de net/http.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token devuelve el token almacenado por el último GetToken exitoso ("" si no hay).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type recepcionRequest struct {
	XML string `json:"xml"`
}

// GetToken obtiene un access token (password grant) y lo guarda en el cliente.
func (c *Client) GetToken(ctx context.Context, username, password string) (string, error) {
	body := tokenRequest{
		GrantType: "password",
		ClientID:  c.cfg.ClientID,
		Username:  username,
		Password:  password,
	}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, c.cfg.baseURL()+"/token", body, "", &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrEmptyAccessToken
	}

	c.mu.Lock()
	c.token = out.AccessToken
	c.mu.Unlock()
	return out.AccessToken, nil
}

// SendDocument envía el XML firmado a /recepcion. token vacío = usar el almacenado.
func (c *Client) SendDocument(ctx context.Context, documentXML, token string) (*DocumentResponse, error) {
	useToken, err := c.resolveToken(token)
	if err != nil {
		return nil, err
	}
	var out DocumentResponse
	if err := c.do(ctx, http.MethodPost, c.cfg.baseURL()+"/recepcion", recepcionRequest{XML: documentXML}, useToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckStatus consulta el estado del comprobante identificado por clave.
func (c *Client) CheckStatus(ctx context.Context, clave, token string) (*DocumentResponse, error) {
	useToken, err := c.resolveToken(token)
	if err != nil {
		return nil, err
	}
	var out DocumentResponse
	endpoint := c.cfg.baseURL() + "/recepcion/" + url.PathEscape(clave)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, useToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) resolveToken(token string) (string, error) {
	if token != "" {
		return token, nil
	}
	if t := c.Token(); t != "" {
		return t, nil
	}
	return "", ErrNoToken
}

// do ejecuta la llamada JSON. Los errores de transporte se devuelven sin envolver;
// las respuestas no-2xx se convierten en *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, in any, token string, out any) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("hacienda: serializar request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("hacienda: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With().
		Str("request_id", uuid.NewString()).
		Str("method", method).
		Str("url", endpoint).
		Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("hacienda: llamada HTTP fallida")
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("hacienda: leer respuesta: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("hacienda: respuesta recibida")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Cause:      resp.Header.Get("X-Error-Cause"),
			Body:       string(raw),
		}
		log.Warn().Int("status", resp.StatusCode).Str("cause", apiErr.Cause).Msg("hacienda: respuesta de error")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		log.Warn().Int("status", resp.StatusCode).Msg("hacienda: respuesta sin cuerpo")
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("hacienda: decodificar respuesta: %w", err)
	}
	return nil
}
