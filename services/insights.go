package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ryokan-explorer/models"
	"ryokan-explorer/utils"
)

// InsightService computes and prints a summary of a finished batch run.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(ryokans []*models.Ryokan) *models.InsightReport {
	report := &models.InsightReport{}

	if len(ryokans) == 0 {
		return report
	}

	report.TotalRyokans = len(ryokans)

	var priced []*models.Ryokan
	var rated []*models.Ryokan

	for _, r := range ryokans {
		if r.Geocoded() {
			report.GeocodedCount++
		}
		if r.HasPrivateOnsen {
			report.PrivateOnsenCount++
		}
		if r.PriceMin != nil {
			priced = append(priced, r)
		}
		if r.Rating != nil {
			rated = append(rated, r)
		}
	}

	// Price stats over listings that published a price
	if len(priced) > 0 {
		report.MinPrice = float64(*priced[0].PriceMin)
		report.MaxPrice = float64(*priced[0].PriceMin)
		report.MostExpensive = priced[0]
		var total float64
		for _, r := range priced {
			p := float64(*r.PriceMin)
			total += p
			if p < report.MinPrice {
				report.MinPrice = p
			}
			if p > report.MaxPrice {
				report.MaxPrice = p
				report.MostExpensive = r
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
	}

	// Top 5 by rating
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].Rating > *rated[j].Rating
	})
	if len(rated) > 5 {
		report.TopRated = rated[:5]
	} else {
		report.TopRated = rated
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ♨️  RYOKAN SCRAPE SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total ryokans scraped  : \033[1m%d\033[0m\n", r.TotalRyokans)
	fmt.Printf("  With GPS coordinates   : \033[1m%d\033[0m\n", r.GeocodedCount)
	fmt.Printf("  With private onsen     : \033[1m%d\033[0m\n", r.PrivateOnsenCount)
	fmt.Println()

	fmt.Printf("\033[1;33m  Nightly Price (from)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Printf("  Average price : \033[1;32m¥%.0f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m¥%.0f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m¥%.0f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Ryokan\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Name, 50))
		fmt.Printf("  Address : %s\n", truncate(r.MostExpensive.Address, 50))
		fmt.Printf("  Price   : \033[1;31m¥%d/night\033[0m\n", *r.MostExpensive.PriceMin)
		fmt.Println()
	}

	if len(r.TopRated) > 0 {
		fmt.Printf("\033[1;33m  Top %d Highest Rated\033[0m\n", len(r.TopRated))
		fmt.Printf("  %s\n", thin)
		for i, ry := range r.TopRated {
			fmt.Printf("  %d. %.1f⭐  %s\n", i+1, *ry.Rating, truncate(ry.Name, 44))
		}
		fmt.Println()
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
