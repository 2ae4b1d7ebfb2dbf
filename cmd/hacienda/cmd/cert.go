package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda/signer"
)

// certInfo resumen del certificado configurado.
type certInfo struct {
	Path      string    `json:"path" yaml:"path"`
	Type      string    `json:"type" yaml:"type"`
	Subject   string    `json:"subject" yaml:"subject"`
	Issuer    string    `json:"issuer" yaml:"issuer"`
	Serial    string    `json:"serial" yaml:"serial"`
	NotBefore time.Time `json:"not_before" yaml:"not_before"`
	NotAfter  time.Time `json:"not_after" yaml:"not_after"`
	Expired   bool      `json:"expired" yaml:"expired"`
}

// newCertCmd diagnóstico del certificado: existe el archivo, la contraseña
// abre el .p12 y la vigencia.
func (a *app) newCertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cert",
		Short: "Diagnostica el certificado de firma configurado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Cert.SignatureOptions()
			cert, err := signer.LoadCertificate(opts)
			if err != nil {
				return fmt.Errorf("certificado %s: %w", opts.CertPath, err)
			}
			leaf := cert.Leaf
			info := certInfo{
				Path:      opts.CertPath,
				Type:      string(opts.CertType),
				Subject:   leaf.Subject.String(),
				Issuer:    leaf.Issuer.String(),
				Serial:    leaf.SerialNumber.Text(16),
				NotBefore: leaf.NotBefore,
				NotAfter:  leaf.NotAfter,
				Expired:   time.Now().After(leaf.NotAfter),
			}
			w := cmd.OutOrStdout()
			switch a.outputFormat {
			case "json":
				return outputJSON(w, info)
			case "yaml":
				return outputYAML(w, info)
			}
			fmt.Fprintf(w, "Archivo:  %s (%s)\n", info.Path, info.Type)
			fmt.Fprintf(w, "Sujeto:   %s\n", info.Subject)
			fmt.Fprintf(w, "Emisor:   %s\n", info.Issuer)
			fmt.Fprintf(w, "Serie:    %s\n", info.Serial)
			fmt.Fprintf(w, "Vigencia: %s - %s\n", info.NotBefore.Format(time.DateOnly), info.NotAfter.Format(time.DateOnly))
			if info.Expired {
				a.log.Warn().Time("not_after", info.NotAfter).Msg("el certificado está vencido")
			}
			return nil
		},
	}
}
