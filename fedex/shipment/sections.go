package shipment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/egorka-gh/fedexship/fedex/xmldoc"
)

func weightElement(name string, w Weight) *xmldoc.Element {
	return xmldoc.New(name).
		AddText("Units", w.Units).
		AddText("Value", formatFloat(w.Value))
}

func moneyElement(name string, m Money) *xmldoc.Element {
	return xmldoc.New(name).
		AddText("Currency", m.Currency).
		AddText("Amount", formatAmount(m.Amount))
}

func partyElement(name string, p Party) *xmldoc.Element {
	el := xmldoc.New(name).AddNonEmpty("AccountNumber", p.AccountNumber)
	for _, tin := range p.Tins {
		el.Add(xmldoc.New("Tins").
			AddText("TinType", tin.TinType).
			AddText("Number", tin.Number).
			AddNonEmpty("Usage", tin.Usage))
	}
	if !p.Contact.empty() {
		el.Add(contactElement(p.Contact))
	}
	if p.Address != nil {
		el.Add(addressElement(*p.Address))
	}
	return el
}

func contactElement(c Contact) *xmldoc.Element {
	return xmldoc.New("Contact").
		AddNonEmpty("PersonName", c.PersonName).
		AddNonEmpty("CompanyName", c.CompanyName).
		AddNonEmpty("PhoneNumber", c.PhoneNumber).
		AddNonEmpty("EMailAddress", c.EMailAddress)
}

func addressElement(a Address) *xmldoc.Element {
	el := xmldoc.New("Address")
	for _, l := range a.StreetLines {
		el.AddText("StreetLines", l)
	}
	el.AddNonEmpty("City", a.City).
		AddNonEmpty("StateOrProvinceCode", a.StateOrProvinceCode).
		AddNonEmpty("PostalCode", a.PostalCode).
		AddNonEmpty("CountryCode", a.CountryCode).
		AddNonEmpty("CountryName", a.CountryName)
	if a.Residential {
		el.AddText("Residential", "true")
	}
	return el
}

//Payor is wrapped in ResponsibleParty
func paymentElement(name string, p Payment) *xmldoc.Element {
	return xmldoc.New(name).
		AddText("PaymentType", p.PaymentType).
		Add(xmldoc.New("Payor", partyElement("ResponsibleParty", p.Payor)))
}

// special services order: return, COD, saturday delivery
func specialServicesElement(spec ShipmentSpec) *xmldoc.Element {
	el := xmldoc.New("SpecialServicesRequested")
	if spec.ReturnReason != "" {
		el.AddText("SpecialServiceTypes", "RETURN_SHIPMENT")
		el.Add(xmldoc.New("ReturnShipmentDetail").
			AddText("ReturnType", "PRINT_RETURN_LABEL").
			Add(xmldoc.New("Rma").AddText("Reason", spec.ReturnReason)))
	}
	if spec.COD != nil {
		amount := xmldoc.New("CodCollectionAmount").
			AddNonEmpty("Currency", strings.ToUpper(spec.COD.Currency))
		if spec.COD.Amount != 0 {
			amount.AddText("Amount", formatAmount(spec.COD.Amount))
		}
		el.AddText("SpecialServiceTypes", "COD")
		el.Add(xmldoc.New("CodDetail", amount).
			AddNonEmpty("CollectionType", spec.COD.CollectionType))
	}
	if spec.SaturdayDelivery {
		el.AddText("SpecialServiceTypes", "SATURDAY_DELIVERY")
	}
	return el
}

func customsElement(c CustomsClearanceDetail) (*xmldoc.Element, error) {
	const section = "CustomsClearanceDetail"
	if c.DutiesPayment == nil || c.DutiesPayment.PaymentType == "" {
		return nil, malformed(section, errors.New("duties payment type is required"))
	}
	if c.CustomsValue == nil || c.CustomsValue.Currency == "" {
		return nil, malformed(section, errors.New("customs value currency is required"))
	}
	el := xmldoc.New(section,
		paymentElement("DutiesPayment", *c.DutiesPayment),
	).AddNonEmpty("DocumentContent", c.DocumentContent)
	el.Add(moneyElement("CustomsValue", *c.CustomsValue))
	if c.CommercialInvoice != nil {
		el.Add(xmldoc.New("CommercialInvoice").AddNonEmpty("Purpose", c.CommercialInvoice.Purpose))
	}
	for i, cm := range c.Commodities {
		if cm.UnitPrice != nil && cm.UnitPrice.Currency == "" {
			return nil, malformed(section, fmt.Errorf("commodity %d: unit price currency is required", i+1))
		}
		el.Add(commodityElement(cm))
	}
	return el, nil
}

func commodityElement(c Commodity) *xmldoc.Element {
	el := xmldoc.New("Commodities").
		AddNonEmpty("Name", c.Name)
	if c.NumberOfPieces > 0 {
		el.AddInt("NumberOfPieces", c.NumberOfPieces)
	}
	el.AddNonEmpty("Description", c.Description).
		AddNonEmpty("CountryOfManufacture", c.CountryOfManufacture)
	if c.Weight != nil {
		el.Add(weightElement("Weight", *c.Weight))
	}
	if c.Quantity > 0 {
		el.AddText("Quantity", formatFloat(c.Quantity))
	}
	el.AddNonEmpty("QuantityUnits", c.QuantityUnits)
	if c.UnitPrice != nil {
		el.Add(moneyElement("UnitPrice", *c.UnitPrice))
	}
	if c.CustomsValue != nil {
		el.Add(moneyElement("CustomsValue", *c.CustomsValue))
	}
	return el
}

func labelElement(overlay *LabelSpecification, detail Fields) (*xmldoc.Element, error) {
	ls := DefaultLabelSpecification.Merge(overlay)
	el := xmldoc.New("LabelSpecification").
		AddText("LabelFormatType", ls.LabelFormatType).
		AddText("ImageType", ls.ImageType).
		AddText("LabelStockType", ls.LabelStockType)
	if len(detail) > 0 {
		csd := xmldoc.New("CustomerSpecifiedDetail")
		if err := appendFields(csd, detail); err != nil {
			return nil, malformed("LabelSpecification", err)
		}
		el.Add(csd)
	}
	return el, nil
}

// PackageCount followed by RequestedPackageLineItems, nothing if no packages
func packageElements(pkgs []Package) ([]*xmldoc.Element, error) {
	if len(pkgs) == 0 {
		return nil, nil
	}
	els := make([]*xmldoc.Element, 0, len(pkgs)+1)
	els = append(els, xmldoc.Text("PackageCount", strconv.Itoa(len(pkgs))))
	for i, p := range pkgs {
		if p.Weight == nil {
			return nil, malformed("RequestedPackageLineItems", fmt.Errorf("package %d: weight is required", i+1))
		}
		li := xmldoc.New("RequestedPackageLineItems").AddInt("SequenceNumber", i+1)
		if p.GroupNumber > 0 {
			li.AddInt("GroupNumber", p.GroupNumber)
		}
		gpc := p.GroupPackageCount
		if gpc < 1 {
			gpc = 1
		}
		li.AddInt("GroupPackageCount", gpc)
		li.Add(weightElement("Weight", *p.Weight))
		if d := p.Dimensions; d != nil {
			li.Add(xmldoc.New("Dimensions").
				AddInt("Length", d.Length).
				AddInt("Width", d.Width).
				AddInt("Height", d.Height).
				AddText("Units", d.Units))
		}
		for _, ref := range p.CustomerReferences {
			li.Add(xmldoc.New("CustomerReferences").
				AddText("CustomerReferenceType", ref.Type).
				AddText("Value", ref.Value))
		}
		els = append(els, li)
	}
	return els, nil
}

// AggregateWeight sums packages weights.
// Returns nil if there are no packages. All packages must have weight in the same units.
func AggregateWeight(pkgs []Package) (*Weight, error) {
	if len(pkgs) == 0 {
		return nil, nil
	}
	var total Weight
	for i, p := range pkgs {
		if p.Weight == nil {
			return nil, malformed("TotalWeight", fmt.Errorf("package %d: weight is required", i+1))
		}
		if i == 0 {
			total.Units = p.Weight.Units
		} else if !strings.EqualFold(total.Units, p.Weight.Units) {
			return nil, malformed("TotalWeight", fmt.Errorf("package %d: units %s, expected %s", i+1, p.Weight.Units, total.Units))
		}
		total.Value += p.Weight.Value
	}
	return &total, nil
}
