package cmd

import (
	"github.com/spf13/cobra"
)

func (a *app) newTokenCmd() *cobra.Command {
	var username, password string
	c := &cobra.Command{
		Use:   "token",
		Short: "Obtiene un access token (password grant)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = a.cfg.Hacienda.Username
			}
			if password == "" {
				password = a.cfg.Hacienda.Password
			}
			client, err := a.newClient()
			if err != nil {
				return err
			}
			token, err := client.GetToken(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			return a.printValue(cmd.OutOrStdout(), "access_token", token)
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "Usuario (por defecto HACIENDA_USERNAME)")
	c.Flags().StringVarP(&password, "password", "p", "", "Contraseña (por defecto HACIENDA_PASSWORD)")
	return c
}
