/*
Package journal keeps the log of shipment attempts
*/
package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/google/uuid"
)

// Repository describes the persistence of shipment records
type Repository interface {
	LogShipment(ctx context.Context, r Record) error
	LoadShipment(ctx context.Context, id string) (Record, error)
	Close()
}

// Record states
const (
	// carrier accepted the shipment
	StateAccepted = "accepted"
	// carrier rejected the shipment (notifications)
	StateRejected = "rejected"
	// soap fault, unrecognized reply or transport error
	StateFailed = "failed"
	// request was not built
	StateInvalid = "invalid"
)

// max length of message column
const messageLen = 250

var timeNow = time.Now

// Record represents the shipment_log db object
type Record struct {
	ID             string    `json:"id" db:"id"`
	ServiceType    string    `json:"service_type" db:"service_type"`
	TrackingNumber string    `json:"tracking_number" db:"tracking_number"`
	State          string    `json:"state" db:"state"`
	Message        string    `json:"message" db:"message"`
	Created        time.Time `json:"created" db:"created"`
}

// NewRecord creates record of one ProcessShipment outcome.
// trackingNumbers are joined by comma.
func NewRecord(serviceType string, trackingNumbers []string, err error) Record {
	r := Record{
		ID:             uuid.New().String(),
		ServiceType:    serviceType,
		TrackingNumber: strings.Join(trackingNumbers, ","),
		State:          State(err),
		Created:        timeNow(),
	}
	if err != nil {
		r.Message = err.Error()
		if m := []rune(r.Message); len(m) > messageLen {
			r.Message = string(m[:messageLen])
		}
	}
	return r
}

// State maps ProcessShipment error to record state
func State(err error) string {
	var (
		be *shipment.CarrierBusinessError
		mf *shipment.MissingFieldError
		mi *shipment.MalformedInputError
	)
	switch {
	case err == nil:
		return StateAccepted
	case errors.As(err, &be):
		return StateRejected
	case errors.As(err, &mf), errors.As(err, &mi):
		return StateInvalid
	}
	return StateFailed
}
