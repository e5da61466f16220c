package shipment

import (
	"errors"
	"fmt"
)

// severities treated as success, exact match
var successSeverities = map[string]bool{
	"SUCCESS": true,
	"WARNING": true,
	"NOTE":    true,
}

// Classify decides the outcome of reply.
// On success returns the whole process_shipment_reply mapping.
// On failure returns *CarrierBusinessError, *CarrierTransportError or
// *ClassificationDegradedError, all of them match ErrShipmentFailed.
func Classify(reply RawReply) (Details, error) {
	if psr, ok := asMap(reply[ReplyKey]); ok {
		if sev, _ := psr["highest_severity"].(string); successSeverities[sev] {
			return Details(psr), nil
		}
	}
	return nil, failure(reply)
}

// extractor probes one reply shape.
// Returns nil if shape is absent, *PathError if shape is present but broken,
// or the carrier failure.
type extractor func(reply RawReply) error

var extractors = []extractor{
	notificationFailure,
	faultFailure,
}

func failure(reply RawReply) error {
	var cause error
	for _, extract := range extractors {
		err := extract(reply)
		var pe *PathError
		switch {
		case err == nil:
			continue
		case errors.As(err, &pe):
			cause = err
		default:
			return err
		}
	}
	if cause == nil {
		cause = fmt.Errorf("fedex: unrecognized reply, neither %s nor Fault found", ReplyKey)
	}
	return &ClassificationDegradedError{Err: cause}
}

// first notification message of not successful process_shipment_reply
func notificationFailure(reply RawReply) error {
	psr, ok := reply[ReplyKey]
	if !ok {
		return nil
	}
	n, err := lookup(psr, ReplyKey, "notifications")
	if err != nil {
		return err
	}
	list := asList(n)
	if len(list) == 0 {
		return &PathError{Path: ReplyKey + ".notifications", Reason: "empty"}
	}
	msg, err := lookupString(list[0], ReplyKey+".notifications[0]", "message")
	if err != nil {
		return err
	}
	sev, _ := lookup(psr, ReplyKey, "highest_severity")
	s, _ := sev.(string)
	return &CarrierBusinessError{Severity: s, Message: msg}
}

// SOAP fault: Fault.detail.fault.reason + details.ValidationFailureDetail.message
func faultFailure(reply RawReply) error {
	key := "Fault"
	f, ok := reply[key]
	if !ok {
		key = "fault"
		if f, ok = reply[key]; !ok {
			return nil
		}
	}
	base := key + ".detail.fault"
	fault, err := lookup(f, key, "detail", "fault")
	if err != nil {
		return err
	}
	reason, err := lookupString(fault, base, "reason")
	if err != nil {
		return err
	}
	res := &CarrierTransportError{Reason: reason}
	msgs, err := lookup(fault, base, "details", "ValidationFailureDetail", "message")
	if err != nil {
		// no validation details
		return res
	}
	for _, m := range asList(msgs) {
		if s, ok := m.(string); ok {
			res.Details = append(res.Details, s)
		}
	}
	return res
}
