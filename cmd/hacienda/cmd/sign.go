package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda/signer"
)

func (a *app) newSignCmd() *cobra.Command {
	var outPath string
	c := &cobra.Command{
		Use:   "sign <factura.xml>",
		Short: "Firma un comprobante con el certificado configurado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			signed, err := a.newSigner().Sign(string(data), a.cfg.Cert.SignatureOptions())
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
				return err
			}
			if err := os.WriteFile(outPath, []byte(signed), 0o644); err != nil {
				return err
			}
			a.log.Info().Str("archivo", outPath).Msg("documento firmado")
			return nil
		},
	}
	c.Flags().StringVarP(&outPath, "write", "w", "", "Archivo de salida (por defecto stdout)")
	return c
}

func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <firmado.xml>",
		Short: "Verifica la firma de un comprobante contra el certificado configurado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cert, err := signer.LoadCertificate(a.cfg.Cert.SignatureOptions())
			if err != nil {
				return err
			}
			if err := signer.VerifyXML(string(data), cert.Leaf); err != nil {
				return err
			}
			return a.printValue(cmd.OutOrStdout(), "valid", true)
		},
	}
}
