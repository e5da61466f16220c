package shipment

import (
	"strconv"

	"github.com/egorka-gh/fedexship/fedex/xmldoc"
)

// Ship service version implemented
const (
	ServiceID           = "ship"
	VersionMajor        = 13
	VersionIntermediate = 0
	VersionMinor        = 0

	// Namespace of ProcessShipmentRequest
	Namespace = "http://fedex.com/ws/ship/v13"

	soapNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
)

// Credentials are supplied by configuration
type Credentials struct {
	Key           string
	Password      string
	AccountNumber string
	MeterNumber   string
}

// Envelope wraps RequestedShipment into SOAP envelope with ProcessShipmentRequest
func Envelope(c Credentials, requested *xmldoc.Element) *xmldoc.Element {
	req := xmldoc.New("ProcessShipmentRequest",
		xmldoc.New("WebAuthenticationDetail",
			xmldoc.New("UserCredential").
				AddText("Key", c.Key).
				AddText("Password", c.Password),
		),
		xmldoc.New("ClientDetail").
			AddText("AccountNumber", c.AccountNumber).
			AddText("MeterNumber", c.MeterNumber),
		xmldoc.New("Version").
			AddText("ServiceId", ServiceID).
			AddText("Major", strconv.Itoa(VersionMajor)).
			AddText("Intermediate", strconv.Itoa(VersionIntermediate)).
			AddText("Minor", strconv.Itoa(VersionMinor)),
		requested,
	).SetAttr("xmlns", Namespace)

	return xmldoc.New("soapenv:Envelope",
		xmldoc.New("soapenv:Header"),
		xmldoc.New("soapenv:Body", req),
	).SetAttr("xmlns:soapenv", soapNamespace)
}
