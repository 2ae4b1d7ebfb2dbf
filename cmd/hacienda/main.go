// hacienda es el CLI para obtener tokens, firmar, enviar y consultar
// comprobantes electrónicos en el API de recepción de Hacienda.
//
// Uso:
//
//	hacienda token
//	hacienda sign factura.xml -w factura-firmada.xml
//	hacienda send factura.xml --sign
//	hacienda status 50601011800310174000100100001010000000011199999999
package main

import (
	"os"

	"github.com/jhoicas/hacienda-fe/cmd/hacienda/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
