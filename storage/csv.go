package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ryokan-explorer/models"
)

// Delimiter matches the table format the viewer expects.
const csvDelimiter = ';'

// csvHeader pins the output column set. Field order here and in
// recordToRow / rowToRecord must stay in sync.
var csvHeader = []string{
	"name", "address", "price_min", "price_max", "rooms_open_air_bath",
	"has_private_onsen", "rental_open_air", "rental_indoor", "rental_both",
	"rating", "tags", "description", "transportation", "url", "lat", "lon",
}

// CSVStore persists the full record set as one semicolon-delimited table,
// replacing any previous file at the destination path. The replace is
// atomic: rows are written to a temp file in the destination directory
// first, then renamed over the target, so a crash mid-write leaves the
// previous run's file intact.
type CSVStore struct {
	path string
}

// NewCSVStore returns a store writing to the given path. Intermediate
// directories are created on the first Write.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Write serializes all records, header row first.
func (s *CSVStore) Write(ryokans []*models.Ryokan) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ryokans-*.csv")
	if err != nil {
		return fmt.Errorf("csv: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	w.Comma = csvDelimiter

	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range ryokans {
		if err := w.Write(recordToRow(r)); err != nil {
			tmp.Close()
			return fmt.Errorf("csv: write row for %q: %w", r.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("csv: replace %q: %w", s.path, err)
	}
	return nil
}

// Close is part of the Writer interface; the CSV store holds no open state
// between writes.
func (s *CSVStore) Close() error { return nil }

// ReadCSV loads a previously written table. Rows with empty lat/lon cells
// come back with nil coordinates.
func ReadCSV(path string) ([]*models.Ryokan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = csvDelimiter
	r.FieldsPerRecord = len(csvHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: %q has no header row", path)
	}

	ryokans := make([]*models.Ryokan, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		ryokans = append(ryokans, rec)
	}
	return ryokans, nil
}

// recordToRow serializes one record. Absent numerics become empty cells,
// never "0". The viewer relies on the distinction.
func recordToRow(r *models.Ryokan) []string {
	return []string{
		r.Name,
		r.Address,
		intCell(r.PriceMin),
		intCell(r.PriceMax),
		strconv.Itoa(r.RoomsOpenAirBath),
		strconv.FormatBool(r.HasPrivateOnsen),
		strconv.FormatBool(r.RentalOpenAir),
		strconv.FormatBool(r.RentalIndoor),
		strconv.FormatBool(r.RentalBoth),
		floatCell(r.Rating),
		strings.Join(r.Tags, "|"),
		r.Description,
		r.Transportation,
		r.URL,
		floatCell(r.Lat),
		floatCell(r.Lon),
	}
}

func rowToRecord(row []string) (*models.Ryokan, error) {
	rec := &models.Ryokan{}
	rec.Name = row[0]
	rec.Address = row[1]

	var err error
	if rec.PriceMin, err = parseIntCell(row[2]); err != nil {
		return nil, fmt.Errorf("csv: price_min %q: %w", row[2], err)
	}
	if rec.PriceMax, err = parseIntCell(row[3]); err != nil {
		return nil, fmt.Errorf("csv: price_max %q: %w", row[3], err)
	}
	if rec.RoomsOpenAirBath, err = strconv.Atoi(row[4]); err != nil {
		return nil, fmt.Errorf("csv: rooms_open_air_bath %q: %w", row[4], err)
	}
	if rec.HasPrivateOnsen, err = strconv.ParseBool(row[5]); err != nil {
		return nil, fmt.Errorf("csv: has_private_onsen %q: %w", row[5], err)
	}
	if rec.RentalOpenAir, err = strconv.ParseBool(row[6]); err != nil {
		return nil, fmt.Errorf("csv: rental_open_air %q: %w", row[6], err)
	}
	if rec.RentalIndoor, err = strconv.ParseBool(row[7]); err != nil {
		return nil, fmt.Errorf("csv: rental_indoor %q: %w", row[7], err)
	}
	if rec.RentalBoth, err = strconv.ParseBool(row[8]); err != nil {
		return nil, fmt.Errorf("csv: rental_both %q: %w", row[8], err)
	}
	if rec.Rating, err = parseFloatCell(row[9]); err != nil {
		return nil, fmt.Errorf("csv: rating %q: %w", row[9], err)
	}
	if row[10] != "" {
		rec.Tags = strings.Split(row[10], "|")
	}
	rec.Description = row[11]
	rec.Transportation = row[12]
	rec.URL = row[13]
	if rec.Lat, err = parseFloatCell(row[14]); err != nil {
		return nil, fmt.Errorf("csv: lat %q: %w", row[14], err)
	}
	if rec.Lon, err = parseFloatCell(row[15]); err != nil {
		return nil, fmt.Errorf("csv: lon %q: %w", row[15], err)
	}
	return rec, nil
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseIntCell(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloatCell(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
