package repo

import (
	"context"

	"github.com/egorka-gh/fedexship/journal"
	"github.com/jmoiron/sqlx"
)

const schema = `CREATE TABLE IF NOT EXISTS shipment_log (
  id varchar(36) NOT NULL,
  service_type varchar(50) NOT NULL DEFAULT '',
  tracking_number varchar(250) NOT NULL DEFAULT '',
  state varchar(20) NOT NULL,
  message varchar(250) NOT NULL DEFAULT '',
  created datetime NOT NULL,
  PRIMARY KEY (id),
  KEY idx_shipment_log_created (created)
)`

type basicRepository struct {
	db *sqlx.DB
}

//New creates new Repository, expect mysql connection
func New(connection string, createSchema bool) (journal.Repository, error) {
	rep, _, err := NewTest(connection, createSchema)
	return rep, err
}

//NewTest creates new Repository, returns underlying sqlx.DB
func NewTest(connection string, createSchema bool) (journal.Repository, *sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", connection)
	if err != nil {
		return nil, nil, err
	}
	if createSchema {
		if _, err = db.Exec(schema); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return &basicRepository{
		db: db,
	}, db, nil
}

func (b *basicRepository) Close() {
	b.db.Close()
}

func (b *basicRepository) LogShipment(ctx context.Context, r journal.Record) error {
	ssql := "INSERT INTO shipment_log (id, service_type, tracking_number, state, message, created) VALUES (:id, :service_type, :tracking_number, :state, :message, :created)"
	_, err := b.db.NamedExecContext(ctx, ssql, r)
	return err
}

func (b *basicRepository) LoadShipment(ctx context.Context, id string) (journal.Record, error) {
	var res journal.Record
	ssql := "SELECT id, service_type, tracking_number, state, message, created FROM shipment_log WHERE id = ?"
	err := b.db.GetContext(ctx, &res, ssql, id)
	return res, err
}
