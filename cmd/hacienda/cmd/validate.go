package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

func (a *app) newValidateCmd() *cobra.Command {
	var anyRoot bool
	c := &cobra.Command{
		Use:   "validate <documento.xml>",
		Short: "Comprueba la raíz del comprobante y que tenga Clave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ok := hacienda.ValidateXML(string(data))
			if anyRoot {
				ok = hacienda.ValidateDocumentXML(string(data))
			}
			if err := a.printValue(cmd.OutOrStdout(), "valid", ok); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: documento inválido", args[0])
			}
			return nil
		},
	}
	c.Flags().BoolVar(&anyRoot, "any", false, "Aceptar cualquier tipo de comprobante, no solo FacturaElectronica")
	return c
}
