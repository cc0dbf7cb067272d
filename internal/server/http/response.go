package httpserver

import (
	"strconv"
	"time"

	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/query"
)

// Response types for JSON serialization.

type errorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type nodeResponse struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	Size          int      `json:"size"`
	URL           string   `json:"url,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Themes        []string `json:"themes,omitempty"`
}

type linkResponse struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Weight  int    `json:"weight"`
	Section string `json:"section,omitempty"`
}

type graphResponse struct {
	Nodes []nodeResponse `json:"nodes"`
	Links []linkResponse `json:"links"`
}

type keywordResultResponse struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Keyword string `json:"keyword"`
}

type keywordSearchResponse struct {
	Results    []keywordResultResponse `json:"results"`
	SearchType string                  `json:"search_type"`
}

type snippetResponse struct {
	Section string `json:"section"`
	Text    string `json:"text"`
}

type fulltextResultResponse struct {
	Title            string            `json:"title"`
	URL              string            `json:"url"`
	MatchingSections []string          `json:"matching_sections"`
	Snippets         []snippetResponse `json:"snippets"`
}

type fulltextSearchResponse struct {
	Results    []fulltextResultResponse `json:"results"`
	SearchType string                   `json:"search_type"`
}

type similarityResponse struct {
	// Similar is a list of [title, sharedCount] pairs.
	Similar [][]interface{} `json:"similar"`
}

type publicationSummaryResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

type keywordPublicationsResponse struct {
	Keyword      string                       `json:"keyword"`
	Publications []publicationSummaryResponse `json:"publications"`
}

type clusterResponse struct {
	ID           int      `json:"id"`
	Size         int      `json:"size"`
	Publications []string `json:"publications"`
	Themes       []string `json:"themes"`
}

type listClustersResponse struct {
	Clusters []clusterResponse `json:"clusters"`
}

type trendsResponse struct {
	PublicationsByYear map[string]int     `json:"publicationsByYear"`
	YearlyGrowthRates  map[string]float64 `json:"yearlyGrowthRates"`
	TopKeywords        [][]interface{}    `json:"topKeywords"`
	Timeframe          int                `json:"timeframe"`
}

type statsResponse struct {
	SnapshotID     string    `json:"snapshot_id"`
	BuiltAt        time.Time `json:"built_at"`
	Publications   int       `json:"publications"`
	Keywords       int       `json:"keywords"`
	Edges          int       `json:"edges"`
	SkippedRecords int       `json:"skipped_records"`
}

type rebuildResponse struct {
	Status     string `json:"status"`
	Generation string `json:"generation"`
}

// Converter functions

func graphToResponse(nodes []domain.Node, edges []domain.Edge) graphResponse {
	resp := graphResponse{
		Nodes: make([]nodeResponse, len(nodes)),
		Links: make([]linkResponse, len(edges)),
	}
	for i, n := range nodes {
		resp.Nodes[i] = nodeResponse{
			ID:            n.ID,
			Type:          string(n.Type),
			Name:          n.Name,
			Size:          n.Size,
			URL:           n.URL,
			PublishedDate: n.PublishedDate,
			Themes:        n.Themes,
		}
	}
	for i, e := range edges {
		resp.Links[i] = linkResponse{
			Source:  e.Source,
			Target:  e.Target,
			Weight:  e.Weight,
			Section: e.Section,
		}
	}
	return resp
}

func searchToResponse(result *query.SearchResult) interface{} {
	if result.Mode == query.ModeFulltext {
		resp := fulltextSearchResponse{
			Results:    make([]fulltextResultResponse, len(result.Fulltext)),
			SearchType: string(query.ModeFulltext),
		}
		for i, m := range result.Fulltext {
			snippets := make([]snippetResponse, len(m.Snippets))
			for j, sn := range m.Snippets {
				snippets[j] = snippetResponse{Section: sn.Section, Text: sn.Text}
			}
			resp.Results[i] = fulltextResultResponse{
				Title:            m.Title,
				URL:              m.URL,
				MatchingSections: m.MatchingSections,
				Snippets:         snippets,
			}
		}
		return resp
	}

	resp := keywordSearchResponse{
		Results:    make([]keywordResultResponse, len(result.Keyword)),
		SearchType: string(query.ModeKeyword),
	}
	for i, m := range result.Keyword {
		resp.Results[i] = keywordResultResponse{
			Title:   m.Title,
			URL:     m.URL,
			Keyword: m.Keyword,
		}
	}
	return resp
}

func similarToResponse(entries []query.SimilarEntry) similarityResponse {
	pairs := make([][]interface{}, len(entries))
	for i, e := range entries {
		pairs[i] = []interface{}{e.Title, e.SharedCount}
	}
	return similarityResponse{Similar: pairs}
}

func publicationsToResponse(keyword string, pubs []query.PublicationSummary) keywordPublicationsResponse {
	resp := keywordPublicationsResponse{
		Keyword:      keyword,
		Publications: make([]publicationSummaryResponse, len(pubs)),
	}
	for i, p := range pubs {
		resp.Publications[i] = publicationSummaryResponse{
			ID:            p.ID,
			Title:         p.Title,
			URL:           p.URL,
			PublishedDate: p.PublishedDate,
		}
	}
	return resp
}

func clustersToResponse(summaries []query.ClusterSummary) listClustersResponse {
	resp := listClustersResponse{Clusters: make([]clusterResponse, len(summaries))}
	for i, c := range summaries {
		resp.Clusters[i] = clusterResponse{
			ID:           c.ID,
			Size:         c.Size,
			Publications: c.Titles,
			Themes:       c.Themes,
		}
	}
	return resp
}

func trendsToResponse(report *query.TrendsReport) trendsResponse {
	resp := trendsResponse{
		PublicationsByYear: make(map[string]int, len(report.CountsByYear)),
		YearlyGrowthRates:  make(map[string]float64, len(report.GrowthRates)),
		TopKeywords:        make([][]interface{}, len(report.TopKeywords)),
		Timeframe:          report.TimeframeYears,
	}
	for year, count := range report.CountsByYear {
		resp.PublicationsByYear[strconv.Itoa(year)] = count
	}
	for year, growth := range report.GrowthRates {
		resp.YearlyGrowthRates[strconv.Itoa(year)] = growth
	}
	for i, kc := range report.TopKeywords {
		resp.TopKeywords[i] = []interface{}{kc.Term, kc.Count}
	}
	return resp
}

func statsToResponse(stats query.Stats) statsResponse {
	return statsResponse{
		SnapshotID:     stats.SnapshotID,
		BuiltAt:        stats.BuiltAt,
		Publications:   stats.Publications,
		Keywords:       stats.Keywords,
		Edges:          stats.Edges,
		SkippedRecords: stats.SkippedRecords,
	}
}
