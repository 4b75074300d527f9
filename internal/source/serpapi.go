package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/httpclient"
)

const DefaultSerpAPIBaseURL = "https://serpapi.com"

type SerpAPIConfig struct {
	BaseURL     string
	APIKey      string
	QuerySuffix string
	Location    string
	Language    string
	MaxResults  int
	NumPages    int
}

// SerpAPI queries the google_jobs engine.
type SerpAPI struct {
	cfg     SerpAPIConfig
	client  httpclient.Client
	account httpclient.Client
}

func NewSerpAPI(cfg SerpAPIConfig, client httpclient.Client) *SerpAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSerpAPIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.NumPages <= 0 {
		cfg.NumPages = 1
	}
	return &SerpAPI{cfg: cfg, client: client, account: client}
}

// WithAccountClient sets the client used for the account endpoint, so it
// can bypass the search counter.
func (s *SerpAPI) WithAccountClient(c httpclient.Client) *SerpAPI {
	if c != nil {
		s.account = c
	}
	return s
}

func (s *SerpAPI) Name() string { return "serpapi" }

type serpJob struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type serpResponse struct {
	Error       string    `json:"error"`
	JobsResults []serpJob `json:"jobs_results"`
	Pagination  struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"serpapi_pagination"`
}

// noResults is how SerpAPI reports an empty search; it is not a failure.
const noResults = "hasn't returned any results"

func (s *SerpAPI) Fetch(ctx context.Context, role string) ([]domain.JobRecord, error) {
	var out []domain.JobRecord
	token := ""

	for page := 0; page < s.cfg.NumPages; page++ {
		res, err := s.page(ctx, role, token)
		if err != nil {
			return nil, err
		}
		for _, j := range res.JobsResults {
			out = append(out, domain.NewJobRecord(s.Name(), j.Title, j.Description, j.CompanyName, j.Location))
		}
		token = res.Pagination.NextPageToken
		if token == "" || (s.cfg.MaxResults > 0 && len(out) >= s.cfg.MaxResults) {
			break
		}
	}
	return bound(out, s.cfg.MaxResults), nil
}

func (s *SerpAPI) page(ctx context.Context, role, token string) (serpResponse, error) {
	q := url.Values{}
	q.Set("engine", "google_jobs")
	q.Set("q", SearchQuery(role, s.cfg.QuerySuffix))
	if s.cfg.Language != "" {
		q.Set("hl", s.cfg.Language)
	}
	if s.cfg.Location != "" {
		q.Set("location", s.cfg.Location)
	}
	if token != "" {
		q.Set("next_page_token", token)
	}
	q.Set("api_key", s.cfg.APIKey)

	var res serpResponse
	resp, err := s.client.Get(ctx, s.cfg.BaseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return res, &UpstreamError{Provider: s.Name(), Err: err}
	}
	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return res, &UpstreamError{Provider: s.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body)}
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return res, &UpstreamError{Provider: s.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body), Err: err}
	}
	if res.Error != "" && len(res.JobsResults) == 0 && !strings.Contains(res.Error, noResults) {
		return res, &UpstreamError{Provider: s.Name(), StatusCode: resp.StatusCode(), Err: errors.New(res.Error)}
	}
	return res, nil
}

// AccountUsage is the provider-side view of the monthly quota.
type AccountUsage struct {
	TotalSearches int    `json:"total_searches"`
	AccountType   string `json:"account_type"`
	SearchLimit   int    `json:"search_limit"`
}

type serpAccount struct {
	TotalSearches    *int   `json:"total_searches"`
	AccountType      string `json:"account_type"`
	SearchLimit      *int   `json:"search_limit"`
	PlanName         string `json:"plan_name"`
	ThisMonthUsage   *int   `json:"this_month_usage"`
	SearchesPerMonth *int   `json:"searches_per_month"`
	Error            string `json:"error"`
}

func firstInt(def int, vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return def
}

// Account reads the account endpoint, which does not consume a search.
// Missing fields fall back to 0 searches, "free" and defaultLimit.
func (s *SerpAPI) Account(ctx context.Context, defaultLimit int) (AccountUsage, error) {
	u := s.cfg.BaseURL + "/account?api_key=" + url.QueryEscape(s.cfg.APIKey)
	resp, err := s.account.Get(ctx, u, nil)
	if err != nil {
		return AccountUsage{}, &UpstreamError{Provider: s.Name(), Err: err}
	}
	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return AccountUsage{}, &UpstreamError{Provider: s.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body)}
	}
	var acc serpAccount
	if err := json.Unmarshal(body, &acc); err != nil {
		return AccountUsage{}, &UpstreamError{Provider: s.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body), Err: err}
	}
	if acc.Error != "" {
		return AccountUsage{}, &UpstreamError{Provider: s.Name(), StatusCode: resp.StatusCode(), Err: errors.New(acc.Error)}
	}

	out := AccountUsage{
		TotalSearches: firstInt(0, acc.TotalSearches, acc.ThisMonthUsage),
		AccountType:   strings.TrimSpace(acc.AccountType),
		SearchLimit:   firstInt(defaultLimit, acc.SearchLimit, acc.SearchesPerMonth),
	}
	if out.AccountType == "" {
		out.AccountType = strings.TrimSpace(acc.PlanName)
	}
	if out.AccountType == "" {
		out.AccountType = "free"
	}
	return out, nil
}
