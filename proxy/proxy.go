package proxy

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/egorka-gh/fedexship/dispatcher"
	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/egorka-gh/fedexship/journal"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-kit/kit/log"
)

//Config to create mux
type Config struct {
	Dispatcher *dispatcher.Dispatcher
	Journal    journal.Repository
	Logger     log.Logger
}

type proxy struct {
	mux    *chi.Mux
	config *Config
}

func (p *proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mux.ServeHTTP(w, r)
}

//New creats http.Handler
func New(config *Config) http.Handler {
	if config.Logger == nil {
		config.Logger = log.NewNopLogger()
	}
	return &proxy{
		config: config,
		mux:    createRouter(config),
	}
}

func createRouter(config *Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hi"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/shipment", config.CreateShipment)
		r.Get("/shipment/{id}", config.GetShipment)
		r.Post("/shipments", config.CreateShipments)
	})
	return r
}

//CreateShipment sends single shipment to fedex
func (c *Config) CreateShipment(w http.ResponseWriter, r *http.Request) {
	if c.Dispatcher == nil {
		render.Render(w, r, ErrNotConfigured)
		return
	}
	var spec shipment.ShipmentSpec
	if err := render.DecodeJSON(r.Body, &spec); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := totalWeight(&spec); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	res := c.Dispatcher.Ship(r.Context(), spec)
	if res.Err != nil {
		render.Render(w, r, errShipment(res.ID, res.Err))
		return
	}
	if err := render.Render(w, r, &BaseResponse{Result: NewShipmentResponse(res)}); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

//CreateShipments sends batch of shipments, every shipment has own result
func (c *Config) CreateShipments(w http.ResponseWriter, r *http.Request) {
	if c.Dispatcher == nil {
		render.Render(w, r, ErrNotConfigured)
		return
	}
	var specs []shipment.ShipmentSpec
	if err := render.DecodeJSON(r.Body, &specs); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if len(specs) == 0 {
		render.Render(w, r, ErrInvalidRequest(errors.New("empty shipments list")))
		return
	}
	for i := range specs {
		if err := totalWeight(&specs[i]); err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
	}

	results := c.Dispatcher.ShipAll(r.Context(), specs)
	list := make(shipments, 0, len(results))
	for _, res := range results {
		list = append(list, NewShipmentResponse(res))
	}
	if err := render.Render(w, r, &BaseResponse{Result: list}); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

//GetShipment returns journal record
func (c *Config) GetShipment(w http.ResponseWriter, r *http.Request) {
	if c.Journal == nil {
		render.Render(w, r, ErrNotConfigured)
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		render.Render(w, r, ErrNotFound)
		return
	}
	rec, err := c.Journal.LoadShipment(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			render.Render(w, r, ErrNotFound)
			return
		}
		c.Logger.Log("id", id, "err", err)
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := render.Render(w, r, &BaseResponse{Result: (*RecordResponse)(&rec)}); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

//multi package shipment without TotalWeight gets packages sum
func totalWeight(spec *shipment.ShipmentSpec) error {
	if spec.TotalWeight != nil || len(spec.Packages) < 2 {
		return nil
	}
	w, err := shipment.AggregateWeight(spec.Packages)
	if err != nil {
		return err
	}
	spec.TotalWeight = w
	return nil
}

func errShipment(id string, err error) render.Renderer {
	var (
		be *shipment.CarrierBusinessError
		mf *shipment.MissingFieldError
		mi *shipment.MalformedInputError
	)
	switch {
	case errors.As(err, &mf), errors.As(err, &mi):
		return ErrInvalidRequest(err)
	case errors.As(err, &be):
		return ErrRejected(id, err)
	}
	return ErrCarrier(id, err)
}
