package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the validation errors into a single *ConfigError, or nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return &ConfigError{Key: "config", Msg: "validation failed:\n- " + strings.Join(v.Errors, "\n- ")}
}

// NormalizeAndValidate returns a normalized copy of cfg along with any
// problems found. Vocabulary lists are lowercased, trimmed and deduped.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	lowerList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.ToLower(strings.TrimSpace(x))
			if x == "" || seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}
	trimList := func(xs []string) []string {
		var ys []string
		for _, x := range xs {
			if x = strings.TrimSpace(x); x != "" {
				ys = append(ys, x)
			}
		}
		return ys
	}

	out.App.DefaultRole = strings.TrimSpace(out.App.DefaultRole)
	out.Provider.Name = strings.ToLower(strings.TrimSpace(out.Provider.Name))
	out.Usage.Backend = strings.ToLower(strings.TrimSpace(out.Usage.Backend))
	out.Vocabulary.TechKeywords = lowerList(out.Vocabulary.TechKeywords)
	out.Vocabulary.Stopwords = lowerList(out.Vocabulary.Stopwords)
	out.Watch.Roles = trimList(out.Watch.Roles)
	out.Greenhouse.Boards = lowerList(out.Greenhouse.Boards)

	// ---- Validation rules ----

	if strings.TrimSpace(out.App.Addr) == "" {
		res.addErr("app.addr is required")
	}
	if out.App.DefaultRole == "" {
		res.addErr("app.default_role is required")
	}
	switch strings.ToLower(out.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		res.addErr("app.log_level must be one of debug|info|warn|error, got %q", out.App.LogLevel)
	}

	switch out.Provider.Name {
	case ProviderSerpAPI, ProviderJSearch:
	case ProviderMailbox:
		if strings.TrimSpace(out.Mailbox.IMAPHost) == "" {
			res.addErr("mailbox.imap_host is required when provider.name=mailbox")
		}
		if out.Mailbox.IMAPPort <= 0 || out.Mailbox.IMAPPort > 65535 {
			res.addErr("mailbox.imap_port must be 1..65535")
		}
		if strings.TrimSpace(out.Mailbox.Username) == "" {
			res.addErr("mailbox.username is required when provider.name=mailbox")
		}
		if strings.TrimSpace(out.Mailbox.Mailbox) == "" {
			res.addErr("mailbox.mailbox is required when provider.name=mailbox")
		}
	case ProviderGreenhouse:
		if len(out.Greenhouse.Boards) == 0 {
			res.addErr("greenhouse.boards must list at least one board when provider.name=greenhouse")
		}
	default:
		res.addErr("provider.name must be one of serpapi|jsearch|mailbox|greenhouse, got %q", out.Provider.Name)
	}

	if out.Provider.MaxResults <= 0 {
		res.addErr("provider.max_results must be > 0")
	}
	if out.Provider.TimeoutSeconds <= 0 {
		res.addErr("provider.timeout_seconds must be > 0")
	}
	if out.Provider.RequestsPerSecond <= 0 {
		res.addErr("provider.requests_per_second must be > 0")
	} else if out.Provider.RequestsPerSecond > 10 {
		res.addWarn("provider.requests_per_second is high (%.1f) and may exhaust the API quota quickly.", out.Provider.RequestsPerSecond)
	}
	if out.Provider.Burst <= 0 {
		res.addErr("provider.burst must be > 0")
	}
	if out.Provider.NumPages <= 0 {
		res.addErr("provider.num_pages must be > 0")
	}

	switch out.Usage.Backend {
	case UsageBackendFile, UsageBackendSQLite, UsageBackendBolt:
	default:
		res.addErr("usage.backend must be one of file|sqlite|bolt, got %q", out.Usage.Backend)
	}
	if strings.TrimSpace(out.Usage.Path) == "" {
		res.addErr("usage.path is required")
	}
	if out.Usage.SearchLimit < 0 {
		res.addErr("usage.search_limit must be >= 0")
	}

	if out.Report.TopN < 0 {
		res.addErr("report.top_n must be >= 0")
	}
	if out.Report.ExportTopN <= 0 {
		res.addErr("report.export_top_n must be > 0")
	}

	if len(out.Vocabulary.TechKeywords) == 0 {
		res.addWarn("vocabulary.tech_keywords is empty; only capitalized phrases will be extracted.")
	}

	for i, r := range out.Tagging.Rules {
		if strings.TrimSpace(r.Tag) == "" {
			res.addErr("tagging.rules[%d].tag is required", i)
		}
		if len(r.Any) == 0 {
			res.addErr("tagging.rules[%d].any must have at least 1 term", i)
		}
		for j, term := range r.Any {
			if strings.TrimSpace(term) == "" {
				res.addErr("tagging.rules[%d].any[%d] cannot be empty", i, j)
			}
		}
	}

	if len(out.Watch.Roles) > 0 && out.Watch.IntervalMinutes <= 0 {
		res.addErr("watch.interval_minutes must be > 0 when watch.roles is set")
	} else if out.Watch.IntervalMinutes > 0 && out.Watch.IntervalMinutes < 5 {
		res.addWarn("watch.interval_minutes is very low (%d) and each run costs API calls.", out.Watch.IntervalMinutes)
	}

	// a keyword that is also a stopword is still matched by the keyword pass
	stop := map[string]bool{}
	for _, s := range out.Vocabulary.Stopwords {
		stop[s] = true
	}
	for _, k := range out.Vocabulary.TechKeywords {
		if stop[k] {
			res.addWarn("%q appears in both tech_keywords and stopwords", k)
		}
	}

	return out, res
}
