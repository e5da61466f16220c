package service

import (
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/egorka-gh/fedexship/fedex/xmldoc"
	"github.com/fatih/camelcase"
)

// decodeReply parses soap reply.
// Body children become RawReply keys, ProcessShipmentReply is converted to
// snake_case keys (process_shipment_reply.highest_severity ...), Fault keeps wire names.
func decodeReply(r io.Reader) (shipment.RawReply, error) {
	root, err := xmldoc.Parse(r)
	if err != nil {
		return nil, err
	}
	body := xmldoc.New("Body", root)
	if root.Name == "Envelope" {
		if body = root.Child("Body"); body == nil {
			return nil, errors.New("soap Envelope without Body")
		}
	}
	reply := shipment.RawReply{}
	for _, el := range body.Children {
		if el.Name == "Fault" {
			reply[el.Name] = el.Map(nil)
			continue
		}
		reply[snakeCase(el.Name)] = el.Map(snakeCase)
	}
	return reply, nil
}

// snakeCase HighestSeverity -> highest_severity, StreetLine2 -> street_line2
func snakeCase(name string) string {
	words := make([]string, 0, 4)
	for _, part := range camelcase.Split(name) {
		r, _ := utf8.DecodeRuneInString(part)
		switch {
		case unicode.IsDigit(r) && len(words) > 0:
			words[len(words)-1] += part
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			words = append(words, strings.ToLower(part))
		}
	}
	return strings.Join(words, "_")
}
