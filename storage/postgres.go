package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"ryokan-explorer/models"
)

// PostgresStore mirrors the record set into PostgreSQL for ad-hoc querying.
// Like the CSV output, each run fully replaces the previous one.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, runs schema migrations, and returns
// a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS ryokans (
			id                  SERIAL PRIMARY KEY,
			name                TEXT         NOT NULL,
			address             TEXT         NOT NULL DEFAULT '',
			price_min           INTEGER,
			price_max           INTEGER,
			rooms_open_air_bath INTEGER      NOT NULL DEFAULT 0,
			has_private_onsen   BOOLEAN      NOT NULL DEFAULT FALSE,
			rental_open_air     BOOLEAN      NOT NULL DEFAULT FALSE,
			rental_indoor       BOOLEAN      NOT NULL DEFAULT FALSE,
			rental_both         BOOLEAN      NOT NULL DEFAULT FALSE,
			rating              NUMERIC(4,2),
			tags                TEXT         NOT NULL DEFAULT '',
			description         TEXT         NOT NULL DEFAULT '',
			transportation      TEXT         NOT NULL DEFAULT '',
			url                 TEXT         UNIQUE NOT NULL,
			lat                 DOUBLE PRECISION,
			lon                 DOUBLE PRECISION,
			created_at          TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_ryokans_price_min ON ryokans(price_min);
		CREATE INDEX IF NOT EXISTS idx_ryokans_rating    ON ryokans(rating);
	`)
	return err
}

// Write batch-inserts all records, clearing the previous run first.
func (ps *PostgresStore) Write(ryokans []*models.Ryokan) error {
	if len(ryokans) == 0 {
		return nil
	}

	if _, err := ps.db.Exec("DELETE FROM ryokans"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(ryokans); i += batchSize {
		end := i + batchSize
		if end > len(ryokans) {
			end = len(ryokans)
		}
		if err := ps.insertBatch(ryokans[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []*models.Ryokan) error {
	const cols = 16
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.Name, r.Address, nullableInt(r.PriceMin), nullableInt(r.PriceMax),
			r.RoomsOpenAirBath, r.HasPrivateOnsen, r.RentalOpenAir, r.RentalIndoor,
			r.RentalBoth, nullableFloat(r.Rating), strings.Join(r.Tags, "|"),
			r.Description, r.Transportation, r.URL,
			nullableFloat(r.Lat), nullableFloat(r.Lon))
	}

	query := fmt.Sprintf(`
		INSERT INTO ryokans (name, address, price_min, price_max,
			rooms_open_air_bath, has_private_onsen, rental_open_air,
			rental_indoor, rental_both, rating, tags, description,
			transportation, url, lat, lon)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	return err
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
