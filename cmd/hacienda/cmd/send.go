package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hacienda-fe/internal/application/submission"
)

func (a *app) newSendCmd() *cobra.Command {
	var (
		sign  bool
		token string
	)
	c := &cobra.Command{
		Use:   "send <factura.xml>",
		Short: "Envía un comprobante a /recepcion",
		Long: `Envía un comprobante al API de recepción. Con --sign el documento se firma
antes de enviarlo. Si no se indica --token se obtiene uno con
HACIENDA_USERNAME / HACIENDA_PASSWORD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			o, err := a.newOrchestrator()
			if err != nil {
				return err
			}
			res, err := o.Submit(cmd.Context(), submission.Request{
				XML:         string(data),
				Sign:        sign,
				SignOptions: a.cfg.Cert.SignatureOptions(),
				Token:       token,
				Credentials: a.credentials(),
			})
			if err != nil {
				return err
			}
			return a.printResponse(cmd.OutOrStdout(), res.Response)
		},
	}
	c.Flags().BoolVar(&sign, "sign", false, "Firmar el documento antes de enviarlo")
	c.Flags().StringVar(&token, "token", "", "Access token a usar (por defecto se solicita uno)")
	return c
}

func (a *app) newStatusCmd() *cobra.Command {
	var token string
	c := &cobra.Command{
		Use:   "status <clave>",
		Short: "Consulta el estado de un comprobante",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.newOrchestrator()
			if err != nil {
				return err
			}
			resp, err := o.Status(cmd.Context(), args[0], token, a.credentials())
			if err != nil {
				return err
			}
			return a.printResponse(cmd.OutOrStdout(), resp)
		},
	}
	c.Flags().StringVar(&token, "token", "", "Access token a usar (por defecto se solicita uno)")
	return c
}
