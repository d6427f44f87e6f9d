// reports/reports.go
//
// Read-only aggregations over an in-memory snapshot of non-deleted assets.
// Every function here is pure and total: identical input and clock always
// produce identical output, and nothing ever fails.
package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VishalDET/mcflassets-sub000/models"
)

// StatusCounts maps status label to asset count.
func StatusCounts(assets []models.Asset) map[string]int {
	counts := map[string]int{}
	for _, a := range assets {
		counts[a.Status]++
	}
	return counts
}

// WarrantyBuckets partitions assets whose warranty expires within the next
// 30/60/90 days. Expired warranties and windows beyond 90 days fall in no
// bucket; only forward-looking alerts are modeled. Scrapped and Inactive
// assets carry no alert.
type WarrantyBuckets struct {
	Days30 []models.Asset `json:"days30"`
	Days60 []models.Asset `json:"days60"`
	Days90 []models.Asset `json:"days90"`
}

func WarrantyAlerts(assets []models.Asset, now time.Time) WarrantyBuckets {
	var b WarrantyBuckets
	b.Days30 = []models.Asset{}
	b.Days60 = []models.Asset{}
	b.Days90 = []models.Asset{}
	for _, a := range assets {
		if a.Status == models.StatusScrapped || a.Status == models.StatusInactive {
			continue
		}
		if a.WarrantyExpiry == nil || !a.WarrantyExpiry.After(now) {
			continue
		}
		days := int(a.WarrantyExpiry.Sub(now).Hours() / 24)
		switch {
		case days <= 30:
			b.Days30 = append(b.Days30, a)
		case days <= 60:
			b.Days60 = append(b.Days60, a)
		case days <= 90:
			b.Days90 = append(b.Days90, a)
		}
	}
	return b
}

// AgeBuckets partitions assets by time since acquisition. Assets without an
// acquisition date are excluded.
type AgeBuckets struct {
	UnderOneYear  []models.Asset `json:"underOneYear"`
	OneToThree    []models.Asset `json:"oneToThreeYears"`
	OverThreeYear []models.Asset `json:"overThreeYears"`
}

func AssetAges(assets []models.Asset, now time.Time) AgeBuckets {
	var b AgeBuckets
	b.UnderOneYear = []models.Asset{}
	b.OneToThree = []models.Asset{}
	b.OverThreeYear = []models.Asset{}
	for _, a := range assets {
		if a.DateOfAcquisition == nil {
			continue
		}
		age := now.Sub(*a.DateOfAcquisition)
		switch {
		case age < 365*24*time.Hour:
			b.UnderOneYear = append(b.UnderOneYear, a)
		case age <= 3*365*24*time.Hour:
			b.OneToThree = append(b.OneToThree, a)
		default:
			b.OverThreeYear = append(b.OverThreeYear, a)
		}
	}
	return b
}

// TotalWorth sums the amount field across assets. Missing or unparsable
// amounts count as zero.
func TotalWorth(assets []models.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		if a.Amount == "" {
			continue
		}
		amount, err := decimal.NewFromString(a.Amount)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// GrowthPoint is the cumulative asset count at the end of a year-month.
type GrowthPoint struct {
	Period     string `json:"period"` // "2024-03"
	Cumulative int    `json:"cumulative"`
}

// GrowthSeries returns the cumulative count of assets by acquisition
// year-month, ascending. Assets without an acquisition date are excluded.
func GrowthSeries(assets []models.Asset) []GrowthPoint {
	perPeriod := map[string]int{}
	for _, a := range assets {
		if a.DateOfAcquisition == nil {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", a.DateOfAcquisition.Year(), int(a.DateOfAcquisition.Month()))
		perPeriod[key]++
	}

	periods := make([]string, 0, len(perPeriod))
	for p := range perPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	series := make([]GrowthPoint, 0, len(periods))
	running := 0
	for _, p := range periods {
		running += perPeriod[p]
		series = append(series, GrowthPoint{Period: p, Cumulative: running})
	}
	return series
}

// CompanyCount is one row of the top-companies leaderboard.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// TopCompanies returns the n companies holding the most assets, descending.
// Ties keep the companies' name order so repeated calls are stable.
func TopCompanies(assets []models.Asset, n int) []CompanyCount {
	if n <= 0 {
		n = 5
	}

	counts := map[string]int{}
	for _, a := range assets {
		if a.CompanyName == "" {
			continue
		}
		counts[a.CompanyName]++
	}

	rows := make([]CompanyCount, 0, len(counts))
	for company, count := range counts {
		rows = append(rows, CompanyCount{Company: company, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Company < rows[j].Company
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
