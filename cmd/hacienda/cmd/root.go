// Package cmd implementa los comandos del CLI hacienda.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/hacienda-fe/internal/application/submission"
	"github.com/jhoicas/hacienda-fe/pkg/config"
	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
	"github.com/jhoicas/hacienda-fe/pkg/hacienda/signer"
	"github.com/jhoicas/hacienda-fe/pkg/logger"
)

// Version se fija en build time.
var Version = "0.1.0"

// app estado compartido por los comandos de una ejecución.
type app struct {
	envFile      string
	outputFormat string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd construye el árbol de comandos.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hacienda",
		Short: "Cliente del API de recepción de comprobantes electrónicos",
		Long: `hacienda obtiene tokens, firma comprobantes XML (XMLDSig envuelta),
los envía al API de recepción de Hacienda y consulta su estado.

La configuración se lee de variables de entorno (HACIENDA_API_URL,
HACIENDA_CLIENT_ID, HACIENDA_USERNAME, CERT_PATH, ...) o de un archivo .env.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Archivo .env a cargar antes de leer la configuración")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", "text", "Formato de salida: text, json, yaml")

	root.AddCommand(
		a.newTokenCmd(),
		a.newSignCmd(),
		a.newVerifyCmd(),
		a.newValidateCmd(),
		a.newSendCmd(),
		a.newStatusCmd(),
		a.newCertCmd(),
	)
	return root
}

// Execute ejecuta el CLI e imprime el error en stderr.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("cargar %s: %w", a.envFile, err)
		}
	} else {
		_ = godotenv.Load() // .env opcional
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Out:   cmd.ErrOrStderr(),
	})

	switch a.outputFormat {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("formato de salida desconocido %q", a.outputFormat)
	}
}

func (a *app) newClient() (*hacienda.Client, error) {
	hc, err := a.cfg.Hacienda.Client()
	if err != nil {
		return nil, err
	}
	return hacienda.NewClient(hc,
		hacienda.WithLogger(a.log.Zerolog()),
		hacienda.WithTimeout(a.cfg.Hacienda.Timeout),
	), nil
}

func (a *app) newSigner() *signer.DigitalSignatureService {
	return signer.NewDigitalSignatureService(a.log.Zerolog())
}

func (a *app) newOrchestrator() (*submission.Orchestrator, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	return submission.NewOrchestrator(client, a.newSigner(), a.log.Zerolog()), nil
}

func (a *app) credentials() submission.Credentials {
	return submission.Credentials{
		Username: a.cfg.Hacienda.Username,
		Password: a.cfg.Hacienda.Password,
	}
}
