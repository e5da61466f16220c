package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/egorka-gh/fedexship/fedex/xmldoc"
	"github.com/go-kit/kit/endpoint"
)

// Endpoints collects all of the endpoints that compose the ship service.
type Endpoints struct {
	ProcessShipmentEndpoint endpoint.Endpoint
	Credentials             shipment.Credentials
}

//*************** ProcessShipment

// ProcessShipmentRequest collects the request parameters for the ProcessShipment method.
type ProcessShipmentRequest struct {
	Envelope    *xmldoc.Element
	ServiceType string
}

func (r ProcessShipmentRequest) String() string {
	return fmt.Sprintf("ProcessShipment service_type=%s", r.ServiceType)
}

// ProcessShipmentResponse collects the response parameters for the ProcessShipment method.
// RawRequest and RawResponse are filled in debug mode only.
type ProcessShipmentResponse struct {
	Reply       shipment.RawReply
	RawRequest  string
	RawResponse string
}

var passwordRe = regexp.MustCompile(`<Password>[^<]*</Password>`)

func (r ProcessShipmentResponse) String() string {
	if r.RawResponse != "" {
		return fmt.Sprintf("request:\n%s\nreply:\n%s", passwordRe.ReplaceAllString(r.RawRequest, "<Password>***</Password>"), r.RawResponse)
	}
	if psr, ok := r.Reply[shipment.ReplyKey].(map[string]interface{}); ok {
		return fmt.Sprintf("highest_severity=%v", psr["highest_severity"])
	}
	if _, ok := r.Reply["Fault"]; ok {
		return "fault"
	}
	return fmt.Sprintf("%v", r.Reply)
}

// ProcessShipment implements Service. Primarily useful in a client.
// Build errors are returned as is and nothing is sent.
func (e Endpoints) ProcessShipment(ctx context.Context, spec shipment.ShipmentSpec) (Shipment, error) {
	var defaulted []string
	pay := &spec.ShippingChargesPayment
	if pay.Payor.AccountNumber == "" && e.Credentials.AccountNumber != "" &&
		(pay.PaymentType == "" || pay.PaymentType == shipment.DefaultPaymentType) {
		pay.Payor.AccountNumber = e.Credentials.AccountNumber
		defaulted = append(defaulted, FieldPayorAccount)
	}
	req, err := shipment.Build(spec)
	if err != nil {
		return Shipment{}, err
	}
	res := Shipment{
		Spec:      req.Spec,
		Defaulted: append(req.Defaulted, defaulted...),
	}

	request := ProcessShipmentRequest{
		Envelope:    shipment.Envelope(e.Credentials, req.Shipment),
		ServiceType: req.Spec.ServiceType,
	}
	response, err := e.ProcessShipmentEndpoint(ctx, request)
	if err != nil {
		return res, err
	}
	resp := response.(ProcessShipmentResponse)
	res.Details, err = shipment.Classify(resp.Reply)
	return res, err
}
