/*
Package service is client for FedEx Ship Service (SOAP, ship v13)
*/
package service

import (
	"context"

	"github.com/egorka-gh/fedexship/fedex/shipment"
)

// FieldPayorAccount is reported in Shipment.Defaulted if payor account was taken from credentials
const FieldPayorAccount = "shipping_charges_payment.payor.account_number"

// Service describes the fedex ship service.
type Service interface {
	ProcessShipment(ctx context.Context, spec shipment.ShipmentSpec) (Shipment, error)
}

// Shipment is the outcome of ProcessShipment.
// Spec and Defaulted are set whenever the request was built,
// Details only if carrier accepted the shipment.
type Shipment struct {
	Spec      shipment.ShipmentSpec
	Defaulted []string
	Details   shipment.Details
}

// TrackingNumbers of accepted shipment
func (s Shipment) TrackingNumbers() []string {
	return s.Details.TrackingNumbers()
}
