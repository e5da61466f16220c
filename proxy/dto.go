package proxy

import (
	"net/http"

	"github.com/egorka-gh/fedexship/dispatcher"
	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/egorka-gh/fedexship/journal"
	"github.com/go-chi/render"
)

// BaseResponse is the base response
type BaseResponse struct {
	Result render.Renderer `json:"result"`
}

//Render implement Renderer
func (b *BaseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ShipmentResponse is the response payload of one shipment
type ShipmentResponse struct {
	ID              string           `json:"id,omitempty"`
	State           string           `json:"state"`
	TrackingNumbers []string         `json:"tracking_numbers,omitempty"`
	Defaulted       []string         `json:"defaulted,omitempty"`
	Details         shipment.Details `json:"details,omitempty"`
	ErrorText       string           `json:"error,omitempty"`
}

//Render implement Renderer
func (s *ShipmentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

//NewShipmentResponse creates ShipmentResponse from dispatcher result
func NewShipmentResponse(res dispatcher.Result) *ShipmentResponse {
	resp := &ShipmentResponse{
		ID:              res.ID,
		State:           res.State,
		TrackingNumbers: res.Shipment.TrackingNumbers(),
		Defaulted:       res.Shipment.Defaulted,
		Details:         res.Shipment.Details,
	}
	if res.Err != nil {
		resp.ErrorText = res.Err.Error()
	}
	return resp
}

type shipments []*ShipmentResponse

func (s shipments) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// RecordResponse is the journal record payload
type RecordResponse journal.Record

//Render implement Renderer
func (rr *RecordResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

//--
// Error response payloads & renderers
//--

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ID         string `json:"id,omitempty"`    // journal record id
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

//Render implement Renderer
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if e.HTTPStatusCode == 0 {
		e.HTTPStatusCode = 400
	}
	if e.ErrorText == "" && e.Err != nil {
		e.ErrorText = e.Err.Error()
	}
	render.Status(r, e.HTTPStatusCode)
	return nil
}

//ErrInvalidRequest creates ErrInvalidRequest response from error
func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

//ErrRender creates ErrRender response from error
func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 422,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

//ErrRejected carrier rejected the shipment
func ErrRejected(id string, err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 422,
		StatusText:     "Shipment rejected.",
		ID:             id,
		ErrorText:      err.Error(),
	}
}

//ErrCarrier soap fault, unrecognized reply or transport error
func ErrCarrier(id string, err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 502,
		StatusText:     "Carrier error.",
		ID:             id,
		ErrorText:      err.Error(),
	}
}

//ErrNotFound creates ErrNotFound response
var ErrNotFound = &ErrResponse{HTTPStatusCode: 404, StatusText: "Resource not found."}

//ErrNotConfigured creates ErrNotConfigured response
var ErrNotConfigured = &ErrResponse{HTTPStatusCode: 501, StatusText: "Not configured."}
