package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VishalDET/mcflassets-sub000/models"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func asset(mutate func(*models.Asset)) models.Asset {
	a := models.Asset{
		Product:     "Laptop",
		CompanyName: "Acme Ltd",
		Status:      models.StatusActive,
		AssignedTo:  models.AssignedToStock,
		EmployeeID:  models.EmployeeNone,
	}
	if mutate != nil {
		mutate(&a)
	}
	return a
}

func TestStatusCounts(t *testing.T) {
	assets := []models.Asset{
		asset(nil),
		asset(nil),
		asset(func(a *models.Asset) { a.Status = models.StatusAssigned }),
		asset(func(a *models.Asset) { a.Status = models.StatusScrapped }),
	}

	counts := StatusCounts(assets)
	if counts[models.StatusActive] != 2 || counts[models.StatusAssigned] != 1 || counts[models.StatusScrapped] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if len(counts) != 3 {
		t.Errorf("got %d distinct statuses, want 3", len(counts))
	}
}

func TestStatusCountsEmpty(t *testing.T) {
	counts := StatusCounts(nil)
	if len(counts) != 0 {
		t.Errorf("counts = %v, want empty map", counts)
	}
}

func TestWarrantyAlertBuckets(t *testing.T) {
	in := func(days int) *time.Time { return tp(testNow.AddDate(0, 0, days)) }

	assets := []models.Asset{
		asset(func(a *models.Asset) { a.URN = "d10"; a.WarrantyExpiry = in(10) }),
		asset(func(a *models.Asset) { a.URN = "d30"; a.WarrantyExpiry = in(30) }),
		asset(func(a *models.Asset) { a.URN = "d45"; a.WarrantyExpiry = in(45) }),
		asset(func(a *models.Asset) { a.URN = "d75"; a.WarrantyExpiry = in(75) }),
		asset(func(a *models.Asset) { a.URN = "d90"; a.WarrantyExpiry = in(90) }),
		asset(func(a *models.Asset) { a.URN = "d120"; a.WarrantyExpiry = in(120) }),
		asset(func(a *models.Asset) { a.URN = "expired"; a.WarrantyExpiry = in(-5) }),
		asset(func(a *models.Asset) { a.URN = "none" }),
		asset(func(a *models.Asset) {
			a.URN = "scrapped"
			a.Status = models.StatusScrapped
			a.WarrantyExpiry = in(10)
		}),
		asset(func(a *models.Asset) {
			a.URN = "inactive"
			a.Status = models.StatusInactive
			a.WarrantyExpiry = in(10)
		}),
	}

	b := WarrantyAlerts(assets, testNow)

	urns := func(bucket []models.Asset) []string {
		out := make([]string, len(bucket))
		for i, a := range bucket {
			out[i] = a.URN
		}
		return out
	}

	if got := urns(b.Days30); len(got) != 2 || got[0] != "d10" || got[1] != "d30" {
		t.Errorf("30-day bucket = %v", got)
	}
	if got := urns(b.Days60); len(got) != 1 || got[0] != "d45" {
		t.Errorf("60-day bucket = %v", got)
	}
	if got := urns(b.Days90); len(got) != 2 || got[0] != "d75" || got[1] != "d90" {
		t.Errorf("90-day bucket = %v", got)
	}
}

func TestAssetAgeBuckets(t *testing.T) {
	assets := []models.Asset{
		asset(func(a *models.Asset) { a.URN = "new"; a.DateOfAcquisition = tp(testNow.AddDate(0, -6, 0)) }),
		asset(func(a *models.Asset) { a.URN = "mid"; a.DateOfAcquisition = tp(testNow.AddDate(-2, 0, 0)) }),
		asset(func(a *models.Asset) { a.URN = "old"; a.DateOfAcquisition = tp(testNow.AddDate(-5, 0, 0)) }),
		asset(func(a *models.Asset) { a.URN = "undated" }),
	}

	b := AssetAges(assets, testNow)
	if len(b.UnderOneYear) != 1 || b.UnderOneYear[0].URN != "new" {
		t.Errorf("under one year = %v", b.UnderOneYear)
	}
	if len(b.OneToThree) != 1 || b.OneToThree[0].URN != "mid" {
		t.Errorf("one to three = %v", b.OneToThree)
	}
	if len(b.OverThreeYear) != 1 || b.OverThreeYear[0].URN != "old" {
		t.Errorf("over three = %v", b.OverThreeYear)
	}
}

func TestTotalWorth(t *testing.T) {
	assets := []models.Asset{
		asset(func(a *models.Asset) { a.Amount = "1200.50" }),
		asset(func(a *models.Asset) { a.Amount = "799.50" }),
		asset(func(a *models.Asset) { a.Amount = "not-a-number" }),
		asset(nil), // no amount
	}

	total := TotalWorth(assets)
	if !total.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("total = %s, want 2000", total)
	}
}

func TestTotalWorthEmpty(t *testing.T) {
	if total := TotalWorth(nil); !total.IsZero() {
		t.Errorf("total = %s, want 0", total)
	}
}

func TestGrowthSeries(t *testing.T) {
	acquire := func(y int, m time.Month) func(*models.Asset) {
		return func(a *models.Asset) {
			a.DateOfAcquisition = tp(time.Date(y, m, 10, 0, 0, 0, 0, time.UTC))
		}
	}
	assets := []models.Asset{
		asset(acquire(2024, time.March)),
		asset(acquire(2024, time.March)),
		asset(acquire(2023, time.November)),
		asset(acquire(2024, time.June)),
		asset(nil), // undated, excluded
	}

	series := GrowthSeries(assets)
	want := []GrowthPoint{
		{Period: "2023-11", Cumulative: 1},
		{Period: "2024-03", Cumulative: 3},
		{Period: "2024-06", Cumulative: 4},
	}
	if len(series) != len(want) {
		t.Fatalf("series = %v", series)
	}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("series[%d] = %v, want %v", i, series[i], want[i])
		}
	}
}

func TestGrowthSeriesEmpty(t *testing.T) {
	if series := GrowthSeries(nil); len(series) != 0 {
		t.Errorf("series = %v, want empty", series)
	}
}

func TestTopCompanies(t *testing.T) {
	company := func(name string) func(*models.Asset) {
		return func(a *models.Asset) { a.CompanyName = name }
	}
	assets := []models.Asset{
		asset(company("Acme")), asset(company("Acme")), asset(company("Acme")),
		asset(company("Globex")), asset(company("Globex")),
		asset(company("Initech")), asset(company("Initech")),
		asset(company("Umbrella")),
		asset(company("")), // unattributed, excluded
	}

	rows := TopCompanies(assets, 3)
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0].Company != "Acme" || rows[0].Count != 3 {
		t.Errorf("rows[0] = %v", rows[0])
	}
	// Tied counts order by name.
	if rows[1].Company != "Globex" || rows[2].Company != "Initech" {
		t.Errorf("tie order = %v, %v", rows[1], rows[2])
	}
}

func TestTopCompaniesDefaultLimit(t *testing.T) {
	var assets []models.Asset
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		n := name
		assets = append(assets, asset(func(a *models.Asset) { a.CompanyName = n }))
	}
	if rows := TopCompanies(assets, 0); len(rows) != 5 {
		t.Errorf("got %d rows, want default of 5", len(rows))
	}
}
