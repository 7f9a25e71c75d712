package ingest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/ingest"
)

const header = "provider,package,start_date,end_date,duration_days,first_stay,shifting,makkah_proximity,camp,price_quad," +
	"madinah_triple,madinah_double,makkah_triple,makkah_double,aziziya_triple,aziziya_double," +
	"madinah_hotel,madinah_checkin,makkah_hotel,makkah_checkin,aziziya_hotel,aziziya_checkin,flight_gateway,flight_price\n"

const validRow = `Al Safwa,Gold 14,2026-05-20,2026-06-03,14,madinah,no,adjacent,muaisim,"25,000",,,1200,2500,,,Pullman Zamzam,2026-05-20,Swissotel,2026-05-25,,,cgk,6500` + "\n"

const shiftingRow = `Rawda,Silver Shifting,2026-05-18,2026-06-05,18,makkah,yes,near,premium,31000 SAR,,,,,,,Anwar Madinah,2026-05-30,Hilton Makkah,2026-05-18,Aziziya Tower,2026-05-24,,` + "\n"

func TestParseCSV_ValidRows(t *testing.T) {
	res, err := ingest.ParseCSV(strings.NewReader(header + validRow + shiftingRow))
	require.NoError(t, err)
	require.Empty(t, res.Rejections)
	require.Len(t, res.Packages, 2)

	p := res.Packages[0]
	assert.Equal(t, "al-safwa-gold-14", p.ID)
	assert.Equal(t, 25000.0, p.PriceQuad)
	assert.Equal(t, catalog.CampMuaisim, p.Camp)
	assert.False(t, p.Shifting)
	require.Len(t, p.Stays, 2)
	assert.Equal(t, catalog.Madinah, p.Stays[0].Location)
	assert.True(t, p.Fees[catalog.Makkah].Triple.Available())
	assert.False(t, p.Fees[catalog.Madinah].Triple.Available())
	require.NotNil(t, p.Flight)
	assert.Equal(t, "CGK", p.Flight.Gateway)
	assert.Equal(t, 6500.0, p.Flight.Price.Or(0))

	s := res.Packages[1]
	assert.True(t, s.Shifting)
	assert.Equal(t, 31000.0, s.PriceQuad)
	require.Len(t, s.Stays, 3)
	// Stays are ordered by check-in: makkah, aziziya, madinah.
	assert.Equal(t, catalog.Makkah, s.Stays[0].Location)
	assert.Equal(t, catalog.Aziziya, s.Stays[1].Location)
	assert.Equal(t, catalog.Madinah, s.Stays[2].Location)
	assert.Nil(t, s.Flight)
}

func TestParseCSV_RejectsInvalidRows(t *testing.T) {
	badPrice := strings.Replace(validRow, `"25,000"`, "0", 1)
	badCamp := strings.Replace(strings.Replace(validRow, "muaisim", "tent", 1), "Gold 14", "Gold 15", 1)
	shiftingTwoStays := strings.Replace(strings.Replace(validRow, ",no,", ",yes,", 1), "Gold 14", "Gold 16", 1)

	res, err := ingest.ParseCSV(strings.NewReader(header + badPrice + badCamp + shiftingTwoStays))
	require.NoError(t, err)
	assert.Empty(t, res.Packages)
	require.Len(t, res.Rejections, 3)

	assert.Equal(t, 2, res.Rejections[0].Line)
	assert.Contains(t, strings.Join(res.Rejections[0].Reasons, "|"), "price_quad must be greater than 0")

	assert.Equal(t, 3, res.Rejections[1].Line)
	assert.Contains(t, strings.Join(res.Rejections[1].Reasons, "|"), "camp must be one of")

	assert.Equal(t, "al-safwa-gold-16", res.Rejections[2].PackageID)
	assert.Contains(t, res.Rejections[2].Reasons, "shifting package must have 3 stays")
}

func TestParseCSV_Duplicate(t *testing.T) {
	res, err := ingest.ParseCSV(strings.NewReader(header + validRow + validRow))
	require.NoError(t, err)
	require.Len(t, res.Packages, 1)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, []string{"duplicate package"}, res.Rejections[0].Reasons)
	assert.Equal(t, 3, res.Rejections[0].Line)
}

func TestParseCSV_FirstStayMismatch(t *testing.T) {
	row := strings.Replace(validRow, ",madinah,no,", ",makkah,no,", 1)
	res, err := ingest.ParseCSV(strings.NewReader(header + row))
	require.NoError(t, err)
	require.Len(t, res.Rejections, 1)
	assert.Contains(t, res.Rejections[0].Reasons, "first stay is madinah but first_stay is makkah")
}

func TestParseCSV_UnparseableNumbers(t *testing.T) {
	row := strings.Replace(validRow, ",14,", ",two weeks,", 1)
	row = strings.Replace(row, ",1200,", ",NaN,", 1)
	res, err := ingest.ParseCSV(strings.NewReader(header + row))
	require.NoError(t, err)
	require.Len(t, res.Rejections, 1)
	joined := strings.Join(res.Rejections[0].Reasons, "|")
	assert.Contains(t, joined, "duration_days")
	assert.Contains(t, joined, "makkah_triple")
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ingest.ParseCSV(strings.NewReader("provider,package\nA,B\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_quad")
}

func TestParseCSV_EmptyInput(t *testing.T) {
	_, err := ingest.ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseCSV_SkipsBlankLines(t *testing.T) {
	res, err := ingest.ParseCSV(strings.NewReader(header + ",,,\n" + validRow))
	require.NoError(t, err)
	assert.Len(t, res.Packages, 1)
	assert.Empty(t, res.Rejections)
}

func TestParseJSON(t *testing.T) {
	body := `[
	  {"provider":"Al Safwa","name":"Gold 14","start_date":"2026-05-20","end_date":"2026-06-03","duration_days":14,
	   "first_stay":"madinah","shifting":false,"makkah_proximity":"adjacent","camp":"muaisim","price_quad":25000,
	   "fees":{"makkah":{"triple":1200,"double":null}},
	   "stays":[{"location":"makkah","hotel":"Swissotel","check_in":"2026-05-25"},
	            {"location":"madinah","hotel":"Pullman","check_in":"2026-05-20"}]},
	  {"provider":"Broken","name":"No Stays","start_date":"2026-05-20","end_date":"2026-06-03","duration_days":14,
	   "first_stay":"madinah","makkah_proximity":"adjacent","camp":"muaisim","price_quad":25000,"stays":[]}
	]`

	res, err := ingest.ParseJSON(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, res.Packages, 1)
	require.Len(t, res.Rejections, 1)

	p := res.Packages[0]
	assert.Equal(t, "al-safwa-gold-14", p.ID)
	assert.Equal(t, catalog.Madinah, p.Stays[0].Location)
	assert.True(t, p.Fees[catalog.Makkah].Triple.Available())
	assert.False(t, p.Fees[catalog.Makkah].Double.Set())

	assert.Equal(t, 2, res.Rejections[0].Line)
}

func TestParseJSON_IgnoresSuppliedIDs(t *testing.T) {
	body := `[
	  {"id":"3f1c2a9e-user-added","provider":"Noor","name":"Economy","start_date":"2026-05-22","end_date":"2026-06-05",
	   "duration_days":14,"first_stay":"madinah","makkah_proximity":"far","camp":"muaisim","price_quad":18000,
	   "stays":[{"location":"madinah","hotel":"Dar Al Iman","check_in":"2026-05-22"},
	            {"location":"makkah","hotel":"Kiswa Towers","check_in":"2026-05-27"}]},
	  {"id":"another-id","provider":"Noor","name":"Economy","start_date":"2026-05-22","end_date":"2026-06-05",
	   "duration_days":14,"first_stay":"madinah","makkah_proximity":"far","camp":"muaisim","price_quad":19000,
	   "stays":[{"location":"madinah","hotel":"Dar Al Iman","check_in":"2026-05-22"},
	            {"location":"makkah","hotel":"Kiswa Towers","check_in":"2026-05-27"}]}
	]`

	res, err := ingest.ParseJSON(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, res.Packages, 1)
	assert.Equal(t, "noor-economy", res.Packages[0].ID)

	require.Len(t, res.Rejections, 1)
	assert.Equal(t, 2, res.Rejections[0].Line)
	assert.Equal(t, []string{"duplicate package"}, res.Rejections[0].Reasons)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ingest.ParseJSON(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+validRow), 0o644))

	res, err := ingest.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accepted())
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := ingest.LoadFile(filepath.Join(t.TempDir(), "catalog.xlsx"))
	require.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := ingest.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestCheck_NegativeFee(t *testing.T) {
	res, err := ingest.ParseCSV(strings.NewReader(header + strings.Replace(validRow, ",2500,", ",-2500,", 1)))
	require.NoError(t, err)
	require.Len(t, res.Rejections, 1)
	assert.Contains(t, res.Rejections[0].Reasons, "fees.makkah.double must not be negative")
}
