/*
Package shipment builds FedEx Ship Service (v13) ProcessShipmentRequest documents
and classifies ProcessShipment replies.

Both Build and Classify are pure: no I/O, no shared state.
*/
package shipment

// ShipmentSpec describes a shipment to create.
// Only ServiceType is required, the carrier validates the rest.
type ShipmentSpec struct {
	ServiceType string `json:"service_type"`

	// defaulted by Build, see Request.Defaulted
	ShipTimestamp string `json:"ship_timestamp,omitempty"`
	DropoffType   string `json:"drop_off_type,omitempty"`
	PackagingType string `json:"packaging_type,omitempty"`

	//TotalWeight aggregate weight of all packages (see AggregateWeight)
	TotalWeight *Weight `json:"total_weight,omitempty"`

	Shipper                Party   `json:"shipper"`
	Recipient              Party   `json:"recipient"`
	ShippingChargesPayment Payment `json:"shipping_charges_payment"`

	// special services
	ReturnReason     string `json:"return_reason,omitempty"`
	COD              *COD   `json:"cod,omitempty"`
	SaturdayDelivery bool   `json:"saturday_delivery,omitempty"`

	CustomsClearanceDetail *CustomsClearanceDetail `json:"customs_clearance_detail,omitempty"`

	//LabelSpecification overlays DefaultLabelSpecification key by key
	LabelSpecification *LabelSpecification `json:"label_specification,omitempty"`
	//CustomerSpecifiedDetail is emitted inside LabelSpecification as is, names are not converted
	CustomerSpecifiedDetail Fields `json:"customer_specified_detail,omitempty"`

	Packages []Package `json:"packages"`
}

func (s ShipmentSpec) hasSpecialServices() bool {
	return s.ReturnReason != "" || s.COD != nil || s.SaturdayDelivery
}

// Weight represents FedEx Weight
type Weight struct {
	Units string  `json:"units"`
	Value float64 `json:"value"`
}

// Dimensions represents FedEx Dimensions
type Dimensions struct {
	Length int    `json:"length"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Units  string `json:"units"`
}

// Money represents FedEx Money
type Money struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Party is shipper, recipient or payor
type Party struct {
	AccountNumber string   `json:"account_number,omitempty"`
	Tins          []Tin    `json:"tins,omitempty"`
	Contact       Contact  `json:"contact"`
	Address       *Address `json:"address,omitempty"`
}

// Tin is a tax identification number
type Tin struct {
	TinType string `json:"tin_type"`
	Number  string `json:"number"`
	Usage   string `json:"usage,omitempty"`
}

// Contact represents FedEx Contact
type Contact struct {
	PersonName   string `json:"person_name,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	EMailAddress string `json:"email_address,omitempty"`
}

func (c Contact) empty() bool {
	return c == Contact{}
}

// Address represents FedEx Address
type Address struct {
	StreetLines         []string `json:"street_lines"`
	City                string   `json:"city"`
	StateOrProvinceCode string   `json:"state_or_province_code,omitempty"`
	PostalCode          string   `json:"postal_code"`
	CountryCode         string   `json:"country_code"`
	CountryName         string   `json:"country_name,omitempty"`
	Residential         bool     `json:"residential,omitempty"`
}

// Payment is a shipping charges or duties payment
type Payment struct {
	//PaymentType SENDER, RECIPIENT, THIRD_PARTY...
	PaymentType string `json:"payment_type,omitempty"`
	//Payor responsible party
	Payor Party `json:"payor"`
}

// COD is collect on delivery detail, every field is optional
type COD struct {
	Currency       string  `json:"currency,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	CollectionType string  `json:"collection_type,omitempty"`
}

// CustomsClearanceDetail represents FedEx CustomsClearanceDetail
// DutiesPayment (with PaymentType) and CustomsValue (with Currency) are required.
type CustomsClearanceDetail struct {
	DutiesPayment     *Payment           `json:"duties_payment"`
	DocumentContent   string             `json:"document_content,omitempty"`
	CustomsValue      *Money             `json:"customs_value"`
	CommercialInvoice *CommercialInvoice `json:"commercial_invoice,omitempty"`
	Commodities       []Commodity        `json:"commodities,omitempty"`
}

// CommercialInvoice represents FedEx CommercialInvoice
type CommercialInvoice struct {
	Purpose string `json:"purpose"`
}

// Commodity represents FedEx Commodity
type Commodity struct {
	Name                 string  `json:"name"`
	NumberOfPieces       int     `json:"number_of_pieces"`
	Description          string  `json:"description"`
	CountryOfManufacture string  `json:"country_of_manufacture"`
	Weight               *Weight `json:"weight,omitempty"`
	Quantity             float64 `json:"quantity,omitempty"`
	QuantityUnits        string  `json:"quantity_units,omitempty"`
	UnitPrice            *Money  `json:"unit_price,omitempty"`
	CustomsValue         *Money  `json:"customs_value,omitempty"`
}

// Package is a requested package line item
type Package struct {
	//GroupNumber omitted if 0
	GroupNumber int `json:"group_number,omitempty"`
	//GroupPackageCount 1 if 0
	GroupPackageCount  int                 `json:"group_package_count,omitempty"`
	Weight             *Weight             `json:"weight"`
	Dimensions         *Dimensions         `json:"dimensions,omitempty"`
	CustomerReferences []CustomerReference `json:"customer_references,omitempty"`
}

// CustomerReference represents FedEx CustomerReferences item
type CustomerReference struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// LabelSpecification represents FedEx LabelSpecification
type LabelSpecification struct {
	LabelFormatType string `json:"label_format_type,omitempty"`
	ImageType       string `json:"image_type,omitempty"`
	LabelStockType  string `json:"label_stock_type,omitempty"`
}

// DefaultLabelSpecification is always sent, even if caller does not need labels
var DefaultLabelSpecification = LabelSpecification{
	LabelFormatType: "COMMON2D",
	ImageType:       "PDF",
	LabelStockType:  "PAPER_8.5X11_TOP_HALF_LABEL",
}

// Merge returns l with non empty fields of overlay
func (l LabelSpecification) Merge(overlay *LabelSpecification) LabelSpecification {
	if overlay == nil {
		return l
	}
	if overlay.LabelFormatType != "" {
		l.LabelFormatType = overlay.LabelFormatType
	}
	if overlay.ImageType != "" {
		l.ImageType = overlay.ImageType
	}
	if overlay.LabelStockType != "" {
		l.LabelStockType = overlay.LabelStockType
	}
	return l
}
