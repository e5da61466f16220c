package dispatcher

import (
	"context"

	"github.com/egorka-gh/fedexship/fedex/service"
	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/egorka-gh/fedexship/journal"
	log "github.com/go-kit/kit/log"
)

//Dispatcher submits shipments to fedex and journals every outcome
type Dispatcher struct {
	svc         service.Service
	rep         journal.Repository
	concurrency int
	logger      log.Logger
}

//Result of one shipment, ID is the journal record id
type Result struct {
	ID       string
	State    string
	Shipment service.Shipment
	Err      error
}

//New creates Dispatcher, rep may be nil (no journal)
func New(svc service.Service, rep journal.Repository, concurrency int, logger log.Logger) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Dispatcher{
		svc:         svc,
		rep:         rep,
		concurrency: concurrency,
		logger:      logger,
	}
}

//Ship processes single shipment
func (d *Dispatcher) Ship(ctx context.Context, spec shipment.ShipmentSpec) Result {
	sh, err := d.svc.ProcessShipment(ctx, spec)
	rec := journal.NewRecord(spec.ServiceType, sh.TrackingNumbers(), err)
	if d.rep != nil {
		if e := d.rep.LogShipment(ctx, rec); e != nil {
			//journal failure doesn't change shipment result
			d.logger.Log("id", rec.ID, "journal_error", e)
		}
	}
	d.logger.Log("id", rec.ID, "service_type", rec.ServiceType, "state", rec.State, "tracking", rec.TrackingNumber, "err", err)
	return Result{ID: rec.ID, State: rec.State, Shipment: sh, Err: err}
}

//ShipAll processes specs concurrently, results are in specs order.
//Specs not started before ctx is done get ctx error.
func (d *Dispatcher) ShipAll(ctx context.Context, specs []shipment.ShipmentSpec) []Result {
	res := make([]Result, len(specs))
	sem := make(chan bool, d.concurrency)
	for i, spec := range specs {
		sem <- true
		if err := ctx.Err(); err != nil {
			<-sem
			res[i] = Result{State: journal.StateFailed, Err: err}
			continue
		}
		go func(i int, spec shipment.ShipmentSpec) {
			defer func() { <-sem }()
			res[i] = d.Ship(ctx, spec)
		}(i, spec)
	}
	//wait all
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
	return res
}
