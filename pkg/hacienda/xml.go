package hacienda

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Raíces de los comprobantes electrónicos v4.x.
const (
	RootFacturaElectronica            = "FacturaElectronica"
	RootTiqueteElectronico            = "TiqueteElectronico"
	RootNotaCreditoElectronica        = "NotaCreditoElectronica"
	RootNotaDebitoElectronica         = "NotaDebitoElectronica"
	RootFacturaElectronicaCompra      = "FacturaElectronicaCompra"
	RootFacturaElectronicaExportacion = "FacturaElectronicaExportacion"
	RootMensajeReceptor               = "MensajeReceptor"
)

// DocumentRoots lista de raíces aceptadas por ValidateDocumentXML cuando no se indican otras.
var DocumentRoots = []string{
	RootFacturaElectronica,
	RootTiqueteElectronico,
	RootNotaCreditoElectronica,
	RootNotaDebitoElectronica,
	RootFacturaElectronicaCompra,
	RootFacturaElectronicaExportacion,
	RootMensajeReceptor,
}

// ValidateXML comprobación superficial (no valida contra XSD): raíz
// FacturaElectronica y un <Clave> no vacío.
func ValidateXML(xml string) bool {
	return ValidateDocumentXML(xml, RootFacturaElectronica)
}

// ValidateDocumentXML igual que ValidateXML pero acepta cualquiera de las raíces
// indicadas (DocumentRoots si no se indica ninguna).
func ValidateDocumentXML(xml string, roots ...string) bool {
	if len(roots) == 0 {
		roots = DocumentRoots
	}
	root, err := parseRoot(xml)
	if err != nil {
		return false
	}
	if !hasTag(roots, root.Tag) {
		return false
	}
	_, ok := claveOf(root)
	return ok
}

// ExtractClave devuelve el valor de <Clave> hijo de la raíz.
func ExtractClave(xml string) (string, error) {
	root, err := parseRoot(xml)
	if err != nil {
		return "", err
	}
	clave, ok := claveOf(root)
	if !ok {
		return "", fmt.Errorf("hacienda: el documento %s no tiene Clave", root.Tag)
	}
	return clave, nil
}

func parseRoot(xml string) (*etree.Element, error) {
	if strings.TrimSpace(xml) == "" {
		return nil, ErrInvalidXML
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = CharsetReader
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
	}
	if n := len(doc.ChildElements()); n != 1 {
		return nil, fmt.Errorf("%w: se esperaba un elemento raíz, hay %d", ErrInvalidXML, n)
	}
	return doc.Root(), nil
}

// claveOf busca <Clave> directo bajo la raíz; etree compara solo el nombre local.
func claveOf(root *etree.Element) (string, bool) {
	el := root.SelectElement("Clave")
	if el == nil {
		return "", false
	}
	v := strings.TrimSpace(el.Text())
	return v, v != ""
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CharsetReader decodifica ISO-8859-1 (algunos ERP aún emiten Latin-1).
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("hacienda: charset no soportado %q", charset)
}
