package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/httpclient"
)

const (
	DefaultJSearchBaseURL = "https://jsearch.p.rapidapi.com"
	jsearchHost           = "jsearch.p.rapidapi.com"
)

type JSearchConfig struct {
	BaseURL     string
	APIKey      string
	QuerySuffix string
	Country     string
	MaxResults  int
	NumPages    int
}

// JSearch queries the RapidAPI JSearch endpoint. One request covers
// NumPages pages of results.
type JSearch struct {
	cfg    JSearchConfig
	client httpclient.Client
}

func NewJSearch(cfg JSearchConfig, client httpclient.Client) *JSearch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultJSearchBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.NumPages <= 0 {
		cfg.NumPages = 1
	}
	return &JSearch{cfg: cfg, client: client}
}

func (j *JSearch) Name() string { return "jsearch" }

type jsearchJob struct {
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	EmployerName   string `json:"employer_name"`
	JobCity        string `json:"job_city"`
	JobState       string `json:"job_state"`
	JobCountry     string `json:"job_country"`
}

func (j jsearchJob) location() string {
	var parts []string
	for _, p := range []string{j.JobCity, j.JobState, j.JobCountry} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type jsearchResponse struct {
	Status string       `json:"status"`
	Data   []jsearchJob `json:"data"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (j *JSearch) Fetch(ctx context.Context, role string) ([]domain.JobRecord, error) {
	q := url.Values{}
	q.Set("query", SearchQuery(role, j.cfg.QuerySuffix))
	if j.cfg.Country != "" {
		q.Set("country", j.cfg.Country)
	}
	q.Set("page", "1")
	q.Set("num_pages", strconv.Itoa(j.cfg.NumPages))

	headers := map[string]string{
		"x-rapidapi-key":  j.cfg.APIKey,
		"x-rapidapi-host": jsearchHost,
	}

	resp, err := j.client.Get(ctx, j.cfg.BaseURL+"/search?"+q.Encode(), headers)
	if err != nil {
		return nil, &UpstreamError{Provider: j.Name(), Err: err}
	}
	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &UpstreamError{Provider: j.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body)}
	}

	var res jsearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &UpstreamError{Provider: j.Name(), StatusCode: resp.StatusCode(), Snippet: responseSnippet(body), Err: err}
	}
	if strings.EqualFold(res.Status, "ERROR") {
		msg := "status ERROR"
		if res.Error != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		return nil, &UpstreamError{Provider: j.Name(), StatusCode: resp.StatusCode(), Err: errors.New(msg)}
	}

	out := make([]domain.JobRecord, 0, len(res.Data))
	for _, d := range res.Data {
		out = append(out, domain.NewJobRecord(j.Name(), d.JobTitle, d.JobDescription, d.EmployerName, d.location()))
	}
	return bound(out, j.cfg.MaxResults), nil
}
