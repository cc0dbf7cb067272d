package query

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spacebio/publication-graph-service/internal/domain"
)

// maxTimeframeYears bounds the zero-filled year window a single request can
// ask for. The window is allocated per request, so it must not scale with
// arbitrary client input.
const maxTimeframeYears = 1000

// KeywordCount pairs a keyword term with its publication count.
type KeywordCount struct {
	Term  string
	Count int
}

// TrendsReport is the year/keyword trend aggregation for one timeframe.
type TrendsReport struct {
	// CountsByYear maps every year in the window, zero-filled, to its
	// publication count.
	CountsByYear map[int]int

	// GrowthRates maps each year after the first in the window to its
	// year-over-year growth percentage, rounded to one decimal.
	GrowthRates map[int]float64

	// TopKeywords ranks the most frequent keywords across publications in
	// the window, descending by count, ties broken by first-seen order.
	TopKeywords []KeywordCount

	// TimeframeYears echoes the requested timeframe.
	TimeframeYears int
}

// Trends buckets publications by year within the last timeframeYears,
// inclusive of the current year. A timeframe of 0 means all time: the
// window starts at the earliest publication year in the corpus. Records
// without a publication date are excluded from year counts.
func (e *Engine) Trends(timeframeYears int) (*TrendsReport, error) {
	start := time.Now()

	if timeframeYears < 0 {
		return nil, domain.NewValidationError("timeframe", "must be non-negative")
	}
	if timeframeYears > maxTimeframeYears {
		return nil, domain.NewValidationError("timeframe", fmt.Sprintf("must be at most %d years", maxTimeframeYears))
	}

	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("trends", "not_ready")
		return nil, err
	}

	currentYear := e.now().Year()

	years := make(map[string]int, len(snap.Records))
	minYear := currentYear
	for id := range snap.PublicationKeywords {
		record := snap.Records[id]
		year := record.Year()
		if year == 0 {
			continue
		}
		years[id] = year
		if year < minYear {
			minYear = year
		}
	}

	firstYear := currentYear - timeframeYears
	if timeframeYears == 0 {
		firstYear = minYear
	}

	counts := make(map[int]int, currentYear-firstYear+1)
	for year := firstYear; year <= currentYear; year++ {
		counts[year] = 0
	}
	inRange := make(map[string]bool, len(years))
	for id, year := range years {
		if year >= firstYear && year <= currentYear {
			counts[year]++
			inRange[id] = true
		}
	}

	report := &TrendsReport{
		CountsByYear:   counts,
		GrowthRates:    growthRates(counts, firstYear, currentYear),
		TopKeywords:    e.topKeywords(snap.KeywordPublications, snap.FirstSeen, inRange),
		TimeframeYears: timeframeYears,
	}

	e.metrics.RecordQuery("trends", time.Since(start).Seconds())
	return report, nil
}

// growthRates computes year-over-year growth percentages. A zero previous
// year is a documented edge case, not a division fault: growth is 100 when
// the current year has publications and 0 otherwise.
func growthRates(counts map[int]int, firstYear, lastYear int) map[int]float64 {
	rates := make(map[int]float64, lastYear-firstYear)
	for year := firstYear + 1; year <= lastYear; year++ {
		prev := counts[year-1]
		cur := counts[year]
		switch {
		case prev == 0 && cur > 0:
			rates[year] = 100
		case prev == 0:
			rates[year] = 0
		default:
			rates[year] = math.Round(float64(cur-prev)/float64(prev)*1000) / 10
		}
	}
	return rates
}

// topKeywords counts, per term, the in-range publications containing it,
// then ranks descending with ties broken by global first-seen rank.
func (e *Engine) topKeywords(keywordPubs map[string][]string, firstSeen map[string]int, inRange map[string]bool) []KeywordCount {
	counts := make([]KeywordCount, 0, len(keywordPubs))
	for term, pubs := range keywordPubs {
		n := 0
		for _, id := range pubs {
			if inRange[id] {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, KeywordCount{Term: term, Count: n})
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return firstSeen[counts[i].Term] < firstSeen[counts[j].Term]
	})

	if len(counts) > e.cfg.TopKeywords {
		counts = counts[:e.cfg.TopKeywords]
	}
	return counts
}
