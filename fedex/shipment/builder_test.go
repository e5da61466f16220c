package shipment

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/egorka-gh/fedexship/fedex/xmldoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) time.Time {
	now := time.Date(2015, 10, 24, 15, 43, 20, 123456789, time.FixedZone("IST", 5*3600+1800))
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })
	return now
}

func testSpec() ShipmentSpec {
	return ShipmentSpec{
		ServiceType: "STANDARD_OVERNIGHT",
		Shipper: Party{
			AccountNumber: "000000000",
			Tins:          []Tin{{TinType: "BUSINESS_NATIONAL", Number: "SHPR1", Usage: "ANY"}},
			Contact:       Contact{PersonName: "Sender", CompanyName: "Acme", PhoneNumber: "5550100"},
			Address: &Address{
				StreetLines: []string{"1 First St", "Suite 2"},
				City:        "Memphis", StateOrProvinceCode: "TN", PostalCode: "38117", CountryCode: "US",
			},
		},
		Recipient: Party{
			Contact: Contact{PersonName: "Receiver", PhoneNumber: "5550101"},
			Address: &Address{StreetLines: []string{"2 Second St"}, City: "Austin", PostalCode: "73301", CountryCode: "US", Residential: true},
		},
		Packages: []Package{{
			GroupNumber: 1,
			Weight:      &Weight{Units: "LB", Value: 2.5},
			Dimensions:  &Dimensions{Length: 10, Width: 12, Height: 14, Units: "IN"},
			CustomerReferences: []CustomerReference{
				{Type: "CUSTOMER_REFERENCE", Value: "6666"},
				{Type: "INVOICE_NUMBER", Value: "8888"},
			},
		}},
	}
}

func testCustoms() *CustomsClearanceDetail {
	return &CustomsClearanceDetail{
		DutiesPayment:     &Payment{PaymentType: "SENDER", Payor: Party{AccountNumber: "000000000"}},
		DocumentContent:   "NON_DOCUMENTS",
		CustomsValue:      &Money{Currency: "USD", Amount: 100},
		CommercialInvoice: &CommercialInvoice{Purpose: "SOLD"},
		Commodities: []Commodity{{
			Name: "PHONE", NumberOfPieces: 1, Description: "mobile phone", CountryOfManufacture: "US",
			Weight: &Weight{Units: "LB", Value: 1}, Quantity: 1, QuantityUnits: "pc",
			UnitPrice: &Money{Currency: "USD", Amount: 100}, CustomsValue: &Money{Currency: "USD", Amount: 100},
		}},
	}
}

func mustBuild(t *testing.T, spec ShipmentSpec) *Request {
	t.Helper()
	req, err := Build(spec)
	require.NoError(t, err)
	require.NotNil(t, req)
	return req
}

func TestBuildMissingServiceType(t *testing.T) {
	spec := testSpec()
	spec.ServiceType = ""
	req, err := Build(spec)
	assert.Nil(t, req)
	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "service_type", mf.Field)
}

func TestBuildOrderMinimal(t *testing.T) {
	fixedNow(t)
	req := mustBuild(t, testSpec())
	assert.Equal(t, []string{
		"ShipTimestamp", "DropoffType", "ServiceType", "PackagingType",
		"Shipper", "Recipient", "ShippingChargesPayment",
		"LabelSpecification", "RateRequestTypes",
		"PackageCount", "RequestedPackageLineItems",
	}, req.Shipment.Names())
	assert.Equal(t, "RequestedShipment", req.Shipment.Name)
}

func TestBuildOrderFull(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.TotalWeight = &Weight{Units: "LB", Value: 2.5}
	spec.ReturnReason = "damaged"
	spec.CustomsClearanceDetail = testCustoms()
	req := mustBuild(t, spec)
	assert.Equal(t, []string{
		"ShipTimestamp", "DropoffType", "ServiceType", "PackagingType", "TotalWeight",
		"Shipper", "Recipient", "ShippingChargesPayment", "SpecialServicesRequested",
		"CustomsClearanceDetail", "LabelSpecification", "RateRequestTypes",
		"PackageCount", "RequestedPackageLineItems",
	}, req.Shipment.Names())
}

func TestBuildDefaults(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	req := mustBuild(t, spec)

	el := req.Shipment
	assert.Equal(t, "2015-10-24T10:13:20.12Z", el.Child("ShipTimestamp").Text)
	assert.Equal(t, DefaultDropoffType, el.Child("DropoffType").Text)
	assert.Equal(t, "STANDARD_OVERNIGHT", el.Child("ServiceType").Text)
	assert.Equal(t, DefaultPackagingType, el.Child("PackagingType").Text)
	assert.Equal(t, DefaultPaymentType, el.Path("ShippingChargesPayment", "PaymentType").Text)
	assert.Equal(t, "ACCOUNT", el.Child("RateRequestTypes").Text)

	assert.Equal(t, []string{FieldShipTimestamp, FieldDropoffType, FieldPackagingType, FieldPaymentType}, req.Defaulted)
	assert.Equal(t, "2015-10-24T10:13:20.12Z", req.Spec.ShipTimestamp)
	assert.Equal(t, DefaultDropoffType, req.Spec.DropoffType)
	assert.Equal(t, DefaultPackagingType, req.Spec.PackagingType)

	// input is not touched
	assert.Equal(t, "", spec.ShipTimestamp)
	assert.Equal(t, "", spec.DropoffType)
}

func TestBuildCallerValuesKept(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.ShipTimestamp = "2020-01-02T03:04:05.00Z"
	spec.DropoffType = "DROP_BOX"
	spec.PackagingType = "FEDEX_BOX"
	spec.ShippingChargesPayment.PaymentType = "RECIPIENT"
	req := mustBuild(t, spec)
	assert.Empty(t, req.Defaulted)
	assert.Equal(t, "2020-01-02T03:04:05.00Z", req.Shipment.Child("ShipTimestamp").Text)
	assert.Equal(t, "DROP_BOX", req.Shipment.Child("DropoffType").Text)
	assert.Equal(t, "FEDEX_BOX", req.Shipment.Child("PackagingType").Text)
	assert.Equal(t, "RECIPIENT", req.Shipment.Path("ShippingChargesPayment", "PaymentType").Text)
}

func TestBuildTimestampPerCall(t *testing.T) {
	now := fixedNow(t)
	first := mustBuild(t, testSpec())
	timeNow = func() time.Time { return now.Add(time.Hour) }
	second := mustBuild(t, testSpec())
	assert.NotEqual(t, first.Spec.ShipTimestamp, second.Spec.ShipTimestamp)
}

func TestBuildIdempotent(t *testing.T) {
	now := fixedNow(t)
	spec := testSpec()
	spec.COD = &COD{Currency: "usd", Amount: 10}
	first := mustBuild(t, spec)

	// later build of the defaulted spec must not recompute the timestamp
	timeNow = func() time.Time { return now.Add(time.Hour) }
	second := mustBuild(t, first.Spec)
	assert.Equal(t, first.Shipment, second.Shipment)
	assert.Empty(t, second.Defaulted)
}

func TestLabelSpecification(t *testing.T) {
	fixedNow(t)
	cases := []struct {
		name    string
		overlay *LabelSpecification
		want    LabelSpecification
	}{
		{name: "none", overlay: nil, want: DefaultLabelSpecification},
		{name: "empty", overlay: &LabelSpecification{}, want: DefaultLabelSpecification},
		{
			name:    "image type",
			overlay: &LabelSpecification{ImageType: "PNG"},
			want:    LabelSpecification{LabelFormatType: "COMMON2D", ImageType: "PNG", LabelStockType: "PAPER_8.5X11_TOP_HALF_LABEL"},
		},
		{
			name:    "all",
			overlay: &LabelSpecification{LabelFormatType: "LABEL_DATA_ONLY", ImageType: "ZPLII", LabelStockType: "STOCK_4X6"},
			want:    LabelSpecification{LabelFormatType: "LABEL_DATA_ONLY", ImageType: "ZPLII", LabelStockType: "STOCK_4X6"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := testSpec()
			spec.LabelSpecification = tc.overlay
			ls := mustBuild(t, spec).Shipment.Child("LabelSpecification")
			require.NotNil(t, ls)
			assert.Equal(t, []string{"LabelFormatType", "ImageType", "LabelStockType"}, ls.Names())
			assert.Equal(t, tc.want.LabelFormatType, ls.Child("LabelFormatType").Text)
			assert.Equal(t, tc.want.ImageType, ls.Child("ImageType").Text)
			assert.Equal(t, tc.want.LabelStockType, ls.Child("LabelStockType").Text)
		})
	}
	// overlay must not leak into defaults
	assert.Equal(t, "PDF", DefaultLabelSpecification.ImageType)
}

func TestCustomerSpecifiedDetail(t *testing.T) {
	fixedNow(t)
	var detail Fields
	require.NoError(t, json.Unmarshal([]byte(`{
		"MaskedData": ["SHIPPER_ACCOUNT_NUMBER", "TRANSPORTATION_CHARGES_PAYOR_ACCOUNT_NUMBER"],
		"DocTabContent": {"DocTabContentType": "STANDARD"},
		"TermsAndConditionsLocalization": null,
		"SignatureRequired": true
	}`), &detail))

	spec := testSpec()
	spec.CustomerSpecifiedDetail = detail
	csd := mustBuild(t, spec).Shipment.Path("LabelSpecification", "CustomerSpecifiedDetail")
	require.NotNil(t, csd)
	assert.Equal(t, []string{"MaskedData", "MaskedData", "DocTabContent", "SignatureRequired"}, csd.Names())
	assert.Equal(t, "TRANSPORTATION_CHARGES_PAYOR_ACCOUNT_NUMBER", csd.Children[1].Text)
	assert.Equal(t, "STANDARD", csd.Path("DocTabContent", "DocTabContentType").Text)
	assert.Equal(t, "true", csd.Child("SignatureRequired").Text)
}

func TestCustomerSpecifiedDetailUnsupported(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.CustomerSpecifiedDetail = Fields{{Name: "Bad", Value: struct{}{}}}
	_, err := Build(spec)
	var mi *MalformedInputError
	require.True(t, errors.As(err, &mi))
	assert.Equal(t, "LabelSpecification", mi.Section)
}

func specialTypes(el *xmldoc.Element) []string {
	var res []string
	for _, c := range el.ChildrenNamed("SpecialServiceTypes") {
		res = append(res, c.Text)
	}
	return res
}

func TestSpecialServices(t *testing.T) {
	fixedNow(t)
	cod := &COD{Currency: "usd", Amount: 15.5, CollectionType: "CASH"}
	cases := []struct {
		name     string
		reason   string
		cod      *COD
		saturday bool
		types    []string
		names    []string
	}{
		{name: "none"},
		{name: "return", reason: "damaged", types: []string{"RETURN_SHIPMENT"}, names: []string{"SpecialServiceTypes", "ReturnShipmentDetail"}},
		{name: "cod", cod: cod, types: []string{"COD"}, names: []string{"SpecialServiceTypes", "CodDetail"}},
		{name: "saturday", saturday: true, types: []string{"SATURDAY_DELIVERY"}, names: []string{"SpecialServiceTypes"}},
		{
			name: "all", reason: "damaged", cod: cod, saturday: true,
			types: []string{"RETURN_SHIPMENT", "COD", "SATURDAY_DELIVERY"},
			names: []string{"SpecialServiceTypes", "ReturnShipmentDetail", "SpecialServiceTypes", "CodDetail", "SpecialServiceTypes"},
		},
		{
			name: "cod and saturday", cod: cod, saturday: true,
			types: []string{"COD", "SATURDAY_DELIVERY"},
			names: []string{"SpecialServiceTypes", "CodDetail", "SpecialServiceTypes"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := testSpec()
			spec.ReturnReason = tc.reason
			spec.COD = tc.cod
			spec.SaturdayDelivery = tc.saturday
			ss := mustBuild(t, spec).Shipment.Child("SpecialServicesRequested")
			if tc.types == nil {
				assert.Nil(t, ss)
				return
			}
			require.NotNil(t, ss)
			assert.Equal(t, tc.types, specialTypes(ss))
			assert.Equal(t, tc.names, ss.Names())
		})
	}
}

func TestReturnShipmentDetail(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.ReturnReason = "wrong size"
	rsd := mustBuild(t, spec).Shipment.Path("SpecialServicesRequested", "ReturnShipmentDetail")
	require.NotNil(t, rsd)
	assert.Equal(t, "PRINT_RETURN_LABEL", rsd.Child("ReturnType").Text)
	assert.Equal(t, "wrong size", rsd.Path("Rma", "Reason").Text)
}

func TestCODDetail(t *testing.T) {
	fixedNow(t)
	cases := []struct {
		name       string
		cod        COD
		amount     []string
		collection string
	}{
		{name: "full", cod: COD{Currency: "usd", Amount: 15.5, CollectionType: "CASH"}, amount: []string{"Currency", "Amount"}, collection: "CASH"},
		{name: "currency only", cod: COD{Currency: "Eur"}, amount: []string{"Currency"}},
		{name: "amount only", cod: COD{Amount: 3}, amount: []string{"Amount"}},
		{name: "empty", cod: COD{}, amount: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := testSpec()
			cod := tc.cod
			spec.COD = &cod
			cd := mustBuild(t, spec).Shipment.Path("SpecialServicesRequested", "CodDetail")
			require.NotNil(t, cd)
			amount := cd.Child("CodCollectionAmount")
			require.NotNil(t, amount)
			assert.Equal(t, tc.amount, amount.Names())
			if c := amount.Child("Currency"); c != nil {
				assert.Equal(t, strings.ToUpper(tc.cod.Currency), c.Text)
			}
			if tc.collection == "" {
				assert.Nil(t, cd.Child("CollectionType"))
			} else {
				assert.Equal(t, tc.collection, cd.Child("CollectionType").Text)
			}
		})
	}
}

func TestCODAmountFormat(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.COD = &COD{Currency: "usd", Amount: 15.5}
	amount := mustBuild(t, spec).Shipment.Path("SpecialServicesRequested", "CodDetail", "CodCollectionAmount")
	assert.Equal(t, "USD", amount.Child("Currency").Text)
	assert.Equal(t, "15.50", amount.Child("Amount").Text)
}

func TestCustomsClearanceDetail(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	assert.Nil(t, mustBuild(t, spec).Shipment.Child("CustomsClearanceDetail"))

	spec.CustomsClearanceDetail = testCustoms()
	ccd := mustBuild(t, spec).Shipment.Child("CustomsClearanceDetail")
	require.NotNil(t, ccd)
	assert.Equal(t, []string{"DutiesPayment", "DocumentContent", "CustomsValue", "CommercialInvoice", "Commodities"}, ccd.Names())
	assert.Equal(t, "000000000", ccd.Path("DutiesPayment", "Payor", "ResponsibleParty", "AccountNumber").Text)
	assert.Equal(t, "100.00", ccd.Path("CustomsValue", "Amount").Text)
	assert.Equal(t, []string{
		"Name", "NumberOfPieces", "Description", "CountryOfManufacture", "Weight",
		"Quantity", "QuantityUnits", "UnitPrice", "CustomsValue",
	}, ccd.Child("Commodities").Names())
}

func TestCustomsPositionIndependentOfOtherSections(t *testing.T) {
	fixedNow(t)
	index := func(names []string, name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		return -1
	}
	for _, saturday := range []bool{false, true} {
		spec := testSpec()
		spec.CustomsClearanceDetail = testCustoms()
		spec.SaturdayDelivery = saturday
		names := mustBuild(t, spec).Shipment.Names()
		ci := index(names, "CustomsClearanceDetail")
		require.NotEqual(t, -1, ci)
		assert.Equal(t, "ShippingChargesPayment", names[ci-1-boolInt(saturday)])
		assert.Equal(t, "LabelSpecification", names[ci+1])
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestCustomsMalformed(t *testing.T) {
	fixedNow(t)
	cases := []struct {
		name   string
		mutate func(c *CustomsClearanceDetail)
	}{
		{name: "no duties payment", mutate: func(c *CustomsClearanceDetail) { c.DutiesPayment = nil }},
		{name: "no duties payment type", mutate: func(c *CustomsClearanceDetail) { c.DutiesPayment.PaymentType = "" }},
		{name: "no customs value", mutate: func(c *CustomsClearanceDetail) { c.CustomsValue = nil }},
		{name: "no unit price currency", mutate: func(c *CustomsClearanceDetail) { c.Commodities[0].UnitPrice.Currency = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := testSpec()
			spec.CustomsClearanceDetail = testCustoms()
			tc.mutate(spec.CustomsClearanceDetail)
			req, err := Build(spec)
			assert.Nil(t, req)
			var mi *MalformedInputError
			require.True(t, errors.As(err, &mi))
			assert.Equal(t, "CustomsClearanceDetail", mi.Section)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestTotalWeight(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	assert.Nil(t, mustBuild(t, spec).Shipment.Child("TotalWeight"))

	spec.TotalWeight = &Weight{Units: "KG", Value: 1}
	tw := mustBuild(t, spec).Shipment.Child("TotalWeight")
	require.NotNil(t, tw)
	assert.Equal(t, "KG", tw.Child("Units").Text)
	assert.Equal(t, "1", tw.Child("Value").Text)
}

func TestAggregateWeight(t *testing.T) {
	w, err := AggregateWeight(nil)
	assert.NoError(t, err)
	assert.Nil(t, w)

	w, err = AggregateWeight([]Package{
		{Weight: &Weight{Units: "KG", Value: 1}},
		{Weight: &Weight{Units: "kg", Value: 2.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, &Weight{Units: "KG", Value: 3.5}, w)

	_, err = AggregateWeight([]Package{
		{Weight: &Weight{Units: "KG", Value: 1}},
		{Weight: &Weight{Units: "LB", Value: 2}},
	})
	var mi *MalformedInputError
	require.True(t, errors.As(err, &mi))
	assert.Equal(t, "TotalWeight", mi.Section)

	_, err = AggregateWeight([]Package{{}})
	assert.True(t, errors.As(err, &mi))
}

func TestPackages(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.Packages = append(spec.Packages, Package{Weight: &Weight{Units: "LB", Value: 1}, GroupPackageCount: 2})
	el := mustBuild(t, spec).Shipment
	assert.Equal(t, "2", el.Child("PackageCount").Text)

	items := el.ChildrenNamed("RequestedPackageLineItems")
	require.Len(t, items, 2)
	assert.Equal(t, []string{"SequenceNumber", "GroupNumber", "GroupPackageCount", "Weight", "Dimensions", "CustomerReferences", "CustomerReferences"}, items[0].Names())
	assert.Equal(t, "1", items[0].Child("SequenceNumber").Text)
	assert.Equal(t, "1", items[0].Child("GroupPackageCount").Text)
	assert.Equal(t, "2.5", items[0].Path("Weight", "Value").Text)
	assert.Equal(t, "INVOICE_NUMBER", items[0].ChildrenNamed("CustomerReferences")[1].Child("CustomerReferenceType").Text)
	assert.Equal(t, []string{"SequenceNumber", "GroupPackageCount", "Weight"}, items[1].Names())
	assert.Equal(t, "2", items[1].Child("SequenceNumber").Text)
	assert.Equal(t, "2", items[1].Child("GroupPackageCount").Text)
}

func TestPackagesMalformed(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.Packages[0].Weight = nil
	_, err := Build(spec)
	var mi *MalformedInputError
	require.True(t, errors.As(err, &mi))
	assert.Equal(t, "RequestedPackageLineItems", mi.Section)
}

func TestNoPackages(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.Packages = nil
	el := mustBuild(t, spec).Shipment
	assert.Nil(t, el.Child("PackageCount"))
	assert.Equal(t, "RateRequestTypes", el.Children[len(el.Children)-1].Name)
}

func TestParties(t *testing.T) {
	fixedNow(t)
	spec := testSpec()
	spec.ShippingChargesPayment.Payor = Party{AccountNumber: "111", Contact: Contact{PersonName: "Payer"}}
	el := mustBuild(t, spec).Shipment

	shipper := el.Child("Shipper")
	assert.Equal(t, []string{"AccountNumber", "Tins", "Contact", "Address"}, shipper.Names())
	assert.Equal(t, []string{"TinType", "Number", "Usage"}, shipper.Child("Tins").Names())
	assert.Equal(t, []string{"StreetLines", "StreetLines", "City", "StateOrProvinceCode", "PostalCode", "CountryCode"}, shipper.Child("Address").Names())

	recipient := el.Child("Recipient")
	assert.Equal(t, []string{"Contact", "Address"}, recipient.Names())
	assert.Equal(t, "true", recipient.Path("Address", "Residential").Text)

	rp := el.Path("ShippingChargesPayment", "Payor", "ResponsibleParty")
	require.NotNil(t, rp)
	assert.Equal(t, "111", rp.Child("AccountNumber").Text)
	assert.Equal(t, "Payer", rp.Path("Contact", "PersonName").Text)
}
