package shipment

import (
	"time"

	"github.com/egorka-gh/fedexship/fedex/xmldoc"
)

const (
	// TimestampFormat ShipTimestamp format, UTC with 2 fractional digits
	TimestampFormat = "2006-01-02T15:04:05.00Z07:00"

	// DefaultDropoffType used if spec has no DropoffType
	DefaultDropoffType = "REGULAR_PICKUP"

	// DefaultPackagingType used if spec has no PackagingType
	DefaultPackagingType = "YOUR_PACKAGING"

	// DefaultPaymentType used if ShippingChargesPayment has no PaymentType
	DefaultPaymentType = "SENDER"

	rateRequestType = "ACCOUNT"
)

// names reported in Request.Defaulted
const (
	FieldShipTimestamp = "ship_timestamp"
	FieldDropoffType   = "drop_off_type"
	FieldPackagingType = "packaging_type"
	FieldPaymentType   = "shipping_charges_payment.payment_type"
)

// timeNow is replaced in tests
var timeNow = time.Now

// Request is a built RequestedShipment.
type Request struct {
	// Shipment RequestedShipment element
	Shipment *xmldoc.Element

	// Spec is the input with defaults filled in.
	// Building Spec again gives the same Shipment.
	Spec ShipmentSpec

	// Defaulted lists fields (Field* names) Build filled in
	Defaulted []string
}

// Build creates RequestedShipment from spec.
// spec is not modified, defaults are reported via Request.Spec and Request.Defaulted.
// Build fails with *MissingFieldError if ServiceType is empty and with
// *MalformedInputError if some optional section can't be built.
func Build(spec ShipmentSpec) (*Request, error) {
	if spec.ServiceType == "" {
		return nil, &MissingFieldError{Field: "service_type"}
	}
	spec, defaulted := withDefaults(spec)

	rs := xmldoc.New("RequestedShipment").
		AddText("ShipTimestamp", spec.ShipTimestamp).
		AddText("DropoffType", spec.DropoffType).
		AddText("ServiceType", spec.ServiceType).
		AddText("PackagingType", spec.PackagingType)
	if spec.TotalWeight != nil {
		rs.Add(weightElement("TotalWeight", *spec.TotalWeight))
	}
	rs.Add(
		partyElement("Shipper", spec.Shipper),
		partyElement("Recipient", spec.Recipient),
		paymentElement("ShippingChargesPayment", spec.ShippingChargesPayment),
	)
	if spec.hasSpecialServices() {
		rs.Add(specialServicesElement(spec))
	}
	if spec.CustomsClearanceDetail != nil {
		el, err := customsElement(*spec.CustomsClearanceDetail)
		if err != nil {
			return nil, err
		}
		rs.Add(el)
	}
	label, err := labelElement(spec.LabelSpecification, spec.CustomerSpecifiedDetail)
	if err != nil {
		return nil, err
	}
	rs.Add(label)
	rs.AddText("RateRequestTypes", rateRequestType)
	pkgs, err := packageElements(spec.Packages)
	if err != nil {
		return nil, err
	}
	rs.Add(pkgs...)

	return &Request{Shipment: rs, Spec: spec, Defaulted: defaulted}, nil
}

// withDefaults fills empty defaultable fields of the (copied) spec.
// now is taken once per call.
func withDefaults(spec ShipmentSpec) (ShipmentSpec, []string) {
	var defaulted []string
	if spec.ShipTimestamp == "" {
		spec.ShipTimestamp = timeNow().UTC().Format(TimestampFormat)
		defaulted = append(defaulted, FieldShipTimestamp)
	}
	if spec.DropoffType == "" {
		spec.DropoffType = DefaultDropoffType
		defaulted = append(defaulted, FieldDropoffType)
	}
	if spec.PackagingType == "" {
		spec.PackagingType = DefaultPackagingType
		defaulted = append(defaulted, FieldPackagingType)
	}
	if spec.ShippingChargesPayment.PaymentType == "" {
		spec.ShippingChargesPayment.PaymentType = DefaultPaymentType
		defaulted = append(defaulted, FieldPaymentType)
	}
	return spec, defaulted
}
