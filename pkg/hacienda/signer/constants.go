// Constantes XMLDSig usadas en la firma envuelta de comprobantes.

package signer

// Namespace y algoritmos declarados en ds:SignedInfo.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// Prefijo de los nodos de firma (ds:Signature, ds:KeyInfo...).
const SignaturePrefix = "ds"
