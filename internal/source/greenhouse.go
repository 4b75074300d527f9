package source

import (
	"context"
	"encoding/json"
	"html"
	"net/url"
	"strings"

	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/httpclient"
)

const DefaultGreenhouseBaseURL = "https://boards-api.greenhouse.io"

type GreenhouseConfig struct {
	BaseURL    string
	Boards     []string // board tokens
	MaxResults int
}

// Greenhouse reads the public job board API of each configured company and
// keeps the postings that mention the role. A board that fails fails the
// whole fetch.
type Greenhouse struct {
	cfg    GreenhouseConfig
	client httpclient.Client
}

func NewGreenhouse(cfg GreenhouseConfig, client httpclient.Client) *Greenhouse {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGreenhouseBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Greenhouse{cfg: cfg, client: client}
}

func (g *Greenhouse) Name() string { return "greenhouse" }

type ghJob struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Content     string `json:"content"` // entity-escaped HTML
	AbsoluteURL string `json:"absolute_url"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

type ghResponse struct {
	Jobs []ghJob `json:"jobs"`
}

func (g *Greenhouse) Fetch(ctx context.Context, role string) ([]domain.JobRecord, error) {
	needle := strings.ToLower(strings.TrimSpace(role))

	var out []domain.JobRecord
	for _, board := range g.cfg.Boards {
		jobs, err := g.board(ctx, board)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			desc := html.UnescapeString(j.Content)
			if needle != "" &&
				!strings.Contains(strings.ToLower(j.Title), needle) &&
				!strings.Contains(strings.ToLower(desc), needle) {
				continue
			}
			company := j.CompanyName
			if company == "" {
				company = board
			}
			out = append(out, domain.NewJobRecord(g.Name(), j.Title, desc, company, j.Location.Name))
		}
		if g.cfg.MaxResults > 0 && len(out) >= g.cfg.MaxResults {
			break
		}
	}
	return bound(out, g.cfg.MaxResults), nil
}

func (g *Greenhouse) board(ctx context.Context, token string) ([]ghJob, error) {
	u := g.cfg.BaseURL + "/v1/boards/" + url.PathEscape(token) + "/jobs?content=true"

	resp, err := g.client.Get(ctx, u, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, &UpstreamError{Provider: g.Name(), Err: err}
	}
	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &UpstreamError{Provider: g.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body)}
	}
	var res ghResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &UpstreamError{Provider: g.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body), Err: err}
	}
	return res.Jobs, nil
}
