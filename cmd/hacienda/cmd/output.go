package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/hacienda-fe/pkg/hacienda"
)

// printResponse imprime la respuesta según --output.
func (a *app) printResponse(w io.Writer, resp *hacienda.DocumentResponse) error {
	switch a.outputFormat {
	case "json":
		return outputJSON(w, resp)
	case "yaml":
		return outputYAML(w, resp)
	}
	fmt.Fprintf(w, "Clave:   %s\n", resp.Clave)
	fmt.Fprintf(w, "Fecha:   %s\n", resp.Fecha)
	fmt.Fprintf(w, "Estado:  %s\n", estadoColor(resp.Estado).Sprint(resp.Estado))
	if resp.Mensaje != "" {
		fmt.Fprintf(w, "Mensaje: %s\n", resp.Mensaje)
	}
	return nil
}

// printValue imprime un valor simple (token, resultado de validación...).
func (a *app) printValue(w io.Writer, key string, v any) error {
	switch a.outputFormat {
	case "json":
		return outputJSON(w, map[string]any{key: v})
	case "yaml":
		return outputYAML(w, map[string]any{key: v})
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

func estadoColor(e hacienda.Estado) *color.Color {
	switch e {
	case hacienda.EstadoAceptado:
		return color.New(color.FgGreen, color.Bold)
	case hacienda.EstadoRechazado:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow)
	}
}

func outputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func outputYAML(w io.Writer, data any) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
