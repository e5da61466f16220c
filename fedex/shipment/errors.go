package shipment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShipmentFailed matches (errors.Is) every failure reported by Classify
var ErrShipmentFailed = errors.New("fedex: shipment failed")

// MissingFieldError required field is absent, nothing is built
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("fedex: missing required field %s", e.Field)
}

// MalformedInputError nested input can't be transformed into Section
type MalformedInputError struct {
	Section string
	Err     error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("fedex: malformed %s: %v", e.Section, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func malformed(section string, err error) error {
	return &MalformedInputError{Section: section, Err: err}
}

// CarrierBusinessError carrier processed the request and rejected the shipment.
// Message is the first notification message.
type CarrierBusinessError struct {
	Severity string
	Message  string
}

func (e *CarrierBusinessError) Error() string {
	return e.Message
}

// Is implements errors.Is
func (e *CarrierBusinessError) Is(target error) bool {
	return target == ErrShipmentFailed
}

// CarrierTransportError carrier replied with a SOAP fault
type CarrierTransportError struct {
	Reason string
	// Details validation failure messages in reply order
	Details []string
}

// Error returns reason followed by each detail on its own "--" prefixed line
func (e *CarrierTransportError) Error() string {
	if len(e.Details) == 0 {
		return e.Reason
	}
	return e.Reason + "\n--" + strings.Join(e.Details, "\n--")
}

// Is implements errors.Is
func (e *CarrierTransportError) Is(target error) bool {
	return target == ErrShipmentFailed
}

// ClassificationDegradedError reply matched no known failure shape.
// Err is the last extraction error.
type ClassificationDegradedError struct {
	Err error
}

func (e *ClassificationDegradedError) Error() string {
	return e.Err.Error()
}

func (e *ClassificationDegradedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *ClassificationDegradedError) Is(target error) bool {
	return target == ErrShipmentFailed
}

// PathError a reply value is missing or has unexpected type
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("fedex: reply %s: %s", e.Path, e.Reason)
}
