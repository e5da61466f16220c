package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	http1 "net/http"
	"net/url"
	"strings"

	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/transport/http"
)

// SOAPAction of ProcessShipmentRequest
const SOAPAction = shipment.Namespace + "/processShipment"

// HTTPDebug is the context key to use with golang.org/x/net/context's
var HTTPDebug ContextKey

// ContextKey is just an empty struct. It exists so HTTPClient can be
// an immutable public variable with a unique type. It's immutable
// because nobody else can create a ContextKey, being unexported.
type ContextKey struct{}

// New returns an Service backed by the FedEx web service living at instance,
// e.g. "https://wsbeta.fedex.com:443/web-services/ship".
// Options and middlewares are keyed by method name ("ProcessShipment").
func New(instance string, creds shipment.Credentials, options map[string][]http.ClientOption, mdw map[string][]endpoint.Middleware) (Service, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "https://" + instance
	}
	u, err := url.Parse(instance)
	if err != nil {
		return nil, err
	}
	var processShipmentEndpoint endpoint.Endpoint
	{
		processShipmentEndpoint = http.NewClient("POST", u, encodeProcessShipmentRequest, decodeProcessShipmentResponse, options["ProcessShipment"]...).Endpoint()
		for _, m := range mdw["ProcessShipment"] {
			processShipmentEndpoint = m(processShipmentEndpoint)
		}
	}

	return Endpoints{
		ProcessShipmentEndpoint: processShipmentEndpoint,
		Credentials:             creds,
	}, nil
}

func encodeProcessShipmentRequest(_ context.Context, r *http1.Request, request interface{}) error {
	req := request.(ProcessShipmentRequest)
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := req.Envelope.Encode(&buf); err != nil {
		return err
	}
	body := buf.Bytes()
	r.Header.Set("Content-Type", "text/xml; charset=utf-8")
	r.Header.Set("SOAPAction", `"`+SOAPAction+`"`)
	r.ContentLength = int64(len(body))
	r.Body = ioutil.NopCloser(bytes.NewReader(body))
	r.GetBody = func() (io.ReadCloser, error) {
		return ioutil.NopCloser(bytes.NewReader(body)), nil
	}
	return nil
}

// soap faults come with 500
func decodeProcessShipmentResponse(ctx context.Context, r *http1.Response) (interface{}, error) {
	if r.StatusCode != http1.StatusOK && r.StatusCode != http1.StatusInternalServerError {
		return nil, statusError(r.StatusCode)
	}
	var resp ProcessShipmentResponse
	var err error
	if isDebugSet(ctx) {
		resp.RawRequest = rawRequest(r.Request)
		var raw bytes.Buffer
		tee := io.TeeReader(r.Body, &raw)
		resp.Reply, err = decodeReply(tee)
		io.Copy(ioutil.Discard, tee)
		resp.RawResponse = raw.String()
	} else {
		resp.Reply, err = decodeReply(r.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("fedex: decode reply (http status %d): %w", r.StatusCode, err)
	}
	return resp, nil
}

func rawRequest(r *http1.Request) string {
	if r == nil || r.GetBody == nil {
		return ""
	}
	body, err := r.GetBody()
	if err != nil {
		return ""
	}
	defer body.Close()
	b, _ := ioutil.ReadAll(body)
	return string(b)
}

func statusError(code int) error {
	return fmt.Errorf("Wrong http status %d. %s", code, http1.StatusText(code))
}

func isDebugSet(ctx context.Context) bool {
	if ctx != nil {
		if debug, ok := ctx.Value(HTTPDebug).(bool); ok {
			return debug
		}
	}
	return false
}
