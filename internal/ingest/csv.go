package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// Column names of the catalog CSV export.
const (
	colProvider       = "provider"
	colPackage        = "package"
	colStartDate      = "start_date"
	colEndDate        = "end_date"
	colDuration       = "duration_days"
	colFirstStay      = "first_stay"
	colShifting       = "shifting"
	colProximity      = "makkah_proximity"
	colCamp           = "camp"
	colPriceQuad      = "price_quad"
	colFlightGateway  = "flight_gateway"
	colFlightPrice    = "flight_price"
	feeColumnTemplate = "%s_%s"
	hotelColumnSuffix = "_hotel"
	checkInSuffix     = "_checkin"
)

var requiredColumns = []string{
	colProvider, colPackage, colStartDate, colEndDate, colDuration,
	colFirstStay, colShifting, colProximity, colCamp, colPriceQuad,
}

// ParseCSV reads a catalog export with a header row. Rows that fail to parse
// or validate are reported as rejections; the error is only for unreadable
// input or a header missing required columns.
func ParseCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading csv header: empty input")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header missing columns: %s", strings.Join(missing, ", "))
	}

	b := newBuilder()
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				b.reject(perr.StartLine, "", []string{perr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if blank(rec) {
			continue
		}

		line, _ := cr.FieldPos(0)
		row := csvRow{cols: cols, rec: rec}
		p, reasons := row.pkg()
		b.add(line, p, reasons)
	}

	return b.result(), nil
}

type csvRow struct {
	cols map[string]int
	rec  []string
}

func (r csvRow) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r csvRow) pkg() (catalog.Package, []string) {
	var reasons []string

	p := catalog.Package{
		Provider:  r.get(colProvider),
		Name:      r.get(colPackage),
		StartDate: r.get(colStartDate),
		EndDate:   r.get(colEndDate),
		FirstStay: catalog.Location(strings.ToLower(r.get(colFirstStay))),
		Proximity: catalog.Proximity(strings.ToLower(r.get(colProximity))),
		Camp:      catalog.CampTier(strings.ToLower(r.get(colCamp))),
	}
	p.ID = catalog.Slug(p.Provider, p.Name)

	if v := r.get(colDuration); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("duration_days %q is not a whole number", v))
		}
		p.DurationDays = n
	}

	shifting, err := parseBool(r.get(colShifting))
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("shifting: %v", err))
	}
	p.Shifting = shifting

	price, err := parseAmount(r.get(colPriceQuad))
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("price_quad: %v", err))
	}
	if v, ok := price.Get(); ok {
		p.PriceQuad = v
	}

	for _, loc := range catalog.Locations {
		var fees catalog.TierFees
		for _, o := range []catalog.Occupancy{catalog.OccupancyTriple, catalog.OccupancyDouble} {
			col := fmt.Sprintf(feeColumnTemplate, loc, o)
			a, err := parseAmount(r.get(col))
			if err != nil {
				reasons = append(reasons, fmt.Sprintf("%s: %v", col, err))
				continue
			}
			if o == catalog.OccupancyTriple {
				fees.Triple = a
			} else {
				fees.Double = a
			}
		}
		if fees.Triple.Set() || fees.Double.Set() {
			if p.Fees == nil {
				p.Fees = make(map[catalog.Location]catalog.TierFees, len(catalog.Locations))
			}
			p.Fees[loc] = fees
		}

		hotel := r.get(string(loc) + hotelColumnSuffix)
		checkIn := r.get(string(loc) + checkInSuffix)
		if hotel != "" || checkIn != "" {
			p.Stays = append(p.Stays, catalog.Stay{Location: loc, Hotel: hotel, CheckIn: checkIn})
		}
	}
	SortStays(p.Stays)

	gateway := r.get(colFlightGateway)
	flightPrice, err := parseAmount(r.get(colFlightPrice))
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("flight_price: %v", err))
	}
	if gateway != "" || flightPrice.Set() {
		p.Flight = &catalog.Flight{Gateway: strings.ToUpper(gateway), Price: flightPrice}
	}

	return p, reasons
}

// parseAmount reads an optional SAR figure. Blank cells are absent;
// thousands separators and a trailing currency code are tolerated.
func parseAmount(s string) (catalog.Amount, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "SAR"), "sar")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return catalog.Amount{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return catalog.Amount{}, fmt.Errorf("%q is not a number", s)
	}
	return catalog.Some(v), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("%q is not a yes/no value", s)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
