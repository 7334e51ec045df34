package airports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

var ErrAirportNotFound = errors.New("airport not found")

var requiredColumns = []string{"IATA_CODE", "AIRPORT", "CITY", "LATITUDE", "LONGITUDE"}

// Table is a read-only airport index keyed by upper-case IATA code. Safe for
// concurrent use once loaded.
type Table struct {
	byCode map[string]models.Airport
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open airports file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read airports header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("airports file missing column %s", name)
		}
	}

	table := &Table{byCode: make(map[string]models.Airport)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read airports line %d: %w", line, err)
		}

		airport, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("airports line %d: %w", line, err)
		}
		table.byCode[airport.IATACode] = airport
	}

	return table, nil
}

func parseRecord(record []string, cols map[string]int) (models.Airport, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	code := strings.ToUpper(field("IATA_CODE"))
	if code == "" {
		return models.Airport{}, errors.New("empty IATA_CODE")
	}

	lat, err := strconv.ParseFloat(field("LATITUDE"), 64)
	if err != nil {
		return models.Airport{}, fmt.Errorf("invalid LATITUDE for %s: %w", code, err)
	}
	lon, err := strconv.ParseFloat(field("LONGITUDE"), 64)
	if err != nil {
		return models.Airport{}, fmt.Errorf("invalid LONGITUDE for %s: %w", code, err)
	}

	return models.Airport{
		IATACode:  code,
		Name:      field("AIRPORT"),
		City:      field("CITY"),
		State:     field("STATE"),
		Country:   field("COUNTRY"),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

// Lookup matches the code exactly, ignoring case and surrounding whitespace.
func (t *Table) Lookup(code string) (models.Airport, error) {
	airport, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return models.Airport{}, ErrAirportNotFound
	}
	return airport, nil
}

func (t *Table) Len() int {
	return len(t.byCode)
}
