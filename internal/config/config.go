// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"skilltrend-engine/internal/skills"
)

// EnvPrefix namespaces env overrides: SKILLTREND_PROVIDER_NAME=jsearch.
const EnvPrefix = "SKILLTREND"

const (
	ProviderSerpAPI = "serpapi"
	ProviderJSearch = "jsearch"
	ProviderMailbox = "mailbox"
	// ProviderGreenhouse reads public Greenhouse job boards; no key needed.
	ProviderGreenhouse = "greenhouse"

	UsageBackendFile   = "file"
	UsageBackendSQLite = "sqlite"
	UsageBackendBolt   = "bolt"
)

type Rule struct {
	Tag string   `yaml:"tag" mapstructure:"tag" json:"tag"`
	Any []string `yaml:"any" mapstructure:"any" json:"any"`
}

type Config struct {
	App struct {
		Addr        string `yaml:"addr" mapstructure:"addr" json:"addr"`
		DataDir     string `yaml:"data_dir" mapstructure:"data_dir" json:"data_dir"`
		LogLevel    string `yaml:"log_level" mapstructure:"log_level" json:"log_level"`
		DefaultRole string `yaml:"default_role" mapstructure:"default_role" json:"default_role"`
	} `yaml:"app" mapstructure:"app" json:"app"`

	Provider struct {
		Name              string  `yaml:"name" mapstructure:"name" json:"name"`
		APIKey            string  `yaml:"api_key" mapstructure:"api_key" json:"-"`
		BaseURL           string  `yaml:"base_url" mapstructure:"base_url" json:"base_url"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds" json:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" mapstructure:"burst" json:"burst"`
		MaxResults        int     `yaml:"max_results" mapstructure:"max_results" json:"max_results"`
		QuerySuffix       string  `yaml:"query_suffix" mapstructure:"query_suffix" json:"query_suffix"`
		Location          string  `yaml:"location" mapstructure:"location" json:"location"`
		Country           string  `yaml:"country" mapstructure:"country" json:"country"`
		Language          string  `yaml:"language" mapstructure:"language" json:"language"`
		NumPages          int     `yaml:"num_pages" mapstructure:"num_pages" json:"num_pages"`
	} `yaml:"provider" mapstructure:"provider" json:"provider"`

	Mailbox struct {
		IMAPHost    string `yaml:"imap_host" mapstructure:"imap_host" json:"imap_host"`
		IMAPPort    int    `yaml:"imap_port" mapstructure:"imap_port" json:"imap_port"`
		Username    string `yaml:"username" mapstructure:"username" json:"username"`
		Mailbox     string `yaml:"mailbox" mapstructure:"mailbox" json:"mailbox"`
		MaxMessages int    `yaml:"max_messages" mapstructure:"max_messages" json:"max_messages"`
		SinceDays   int    `yaml:"since_days" mapstructure:"since_days" json:"since_days"`
	} `yaml:"mailbox" mapstructure:"mailbox" json:"mailbox"`

	Greenhouse struct {
		Boards []string `yaml:"boards" mapstructure:"boards" json:"boards"` // board tokens, boards.greenhouse.io/<token>
	} `yaml:"greenhouse" mapstructure:"greenhouse" json:"greenhouse"`

	Usage struct {
		Backend     string `yaml:"backend" mapstructure:"backend" json:"backend"`
		Path        string `yaml:"path" mapstructure:"path" json:"path"`
		SearchLimit int    `yaml:"search_limit" mapstructure:"search_limit" json:"search_limit"`
	} `yaml:"usage" mapstructure:"usage" json:"usage"`

	Report struct {
		TopN       int    `yaml:"top_n" mapstructure:"top_n" json:"top_n"`
		ExportTopN int    `yaml:"export_top_n" mapstructure:"export_top_n" json:"export_top_n"`
		CSVPath    string `yaml:"csv_path" mapstructure:"csv_path" json:"csv_path"`
		ChartPath  string `yaml:"chart_path" mapstructure:"chart_path" json:"chart_path"`
	} `yaml:"report" mapstructure:"report" json:"report"`

	Vocabulary struct {
		TechKeywords []string `yaml:"tech_keywords" mapstructure:"tech_keywords" json:"tech_keywords"`
		Stopwords    []string `yaml:"stopwords" mapstructure:"stopwords" json:"stopwords"`
	} `yaml:"vocabulary" mapstructure:"vocabulary" json:"vocabulary"`

	Tagging struct {
		Rules []Rule `yaml:"rules" mapstructure:"rules" json:"rules"`
	} `yaml:"tagging" mapstructure:"tagging" json:"tagging"`

	Watch struct {
		Roles           []string `yaml:"roles" mapstructure:"roles" json:"roles"`
		IntervalMinutes int      `yaml:"interval_minutes" mapstructure:"interval_minutes" json:"interval_minutes"`
	} `yaml:"watch" mapstructure:"watch" json:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.App.Addr = "127.0.0.1:5000"
	cfg.App.DataDir = "."
	cfg.App.LogLevel = "info"
	cfg.App.DefaultRole = "dotnet"

	cfg.Provider.Name = ProviderSerpAPI
	cfg.Provider.TimeoutSeconds = 15
	cfg.Provider.RequestsPerSecond = 1
	cfg.Provider.Burst = 2
	cfg.Provider.MaxResults = 50
	cfg.Provider.QuerySuffix = "developer"
	cfg.Provider.Location = "United States"
	cfg.Provider.Country = "us"
	cfg.Provider.Language = "en"
	cfg.Provider.NumPages = 1

	cfg.Mailbox.IMAPPort = 993
	cfg.Mailbox.Mailbox = "INBOX"
	cfg.Mailbox.MaxMessages = 50
	cfg.Mailbox.SinceDays = 90

	cfg.Usage.Backend = UsageBackendFile
	cfg.Usage.Path = "counter.json"
	cfg.Usage.SearchLimit = 100

	cfg.Report.TopN = 0
	cfg.Report.ExportTopN = 50
	cfg.Report.CSVPath = "data/cleaned_job_skills.csv"
	cfg.Report.ChartPath = "visuals/top_skills_chart.png"

	cfg.Vocabulary.TechKeywords = append([]string(nil), skills.DefaultTechKeywords...)
	cfg.Vocabulary.Stopwords = append([]string(nil), skills.DefaultStopwords...)

	cfg.Tagging.Rules = []Rule{
		{Tag: "Full-Stack", Any: []string{"full-stack", "react", "angular", "frontend", "html", "css"}},
		{Tag: "Backend", Any: []string{"backend", "api", "sql", ".net core", "c#"}},
		{Tag: "Cloud", Any: []string{"azure", "aws", "docker", "devops", "kubernetes"}},
		{Tag: "Gov/Defense", Any: []string{"clearance", "secret", "federal", "government", "dod"}},
	}
	return cfg
}

// Load reads the YAML file at path on top of the defaults, then applies
// SKILLTREND_* env overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("app.addr", d.App.Addr)
	v.SetDefault("app.data_dir", d.App.DataDir)
	v.SetDefault("app.log_level", d.App.LogLevel)
	v.SetDefault("app.default_role", d.App.DefaultRole)

	v.SetDefault("provider.name", d.Provider.Name)
	v.SetDefault("provider.api_key", d.Provider.APIKey)
	v.SetDefault("provider.base_url", d.Provider.BaseURL)
	v.SetDefault("provider.timeout_seconds", d.Provider.TimeoutSeconds)
	v.SetDefault("provider.requests_per_second", d.Provider.RequestsPerSecond)
	v.SetDefault("provider.burst", d.Provider.Burst)
	v.SetDefault("provider.max_results", d.Provider.MaxResults)
	v.SetDefault("provider.query_suffix", d.Provider.QuerySuffix)
	v.SetDefault("provider.location", d.Provider.Location)
	v.SetDefault("provider.country", d.Provider.Country)
	v.SetDefault("provider.language", d.Provider.Language)
	v.SetDefault("provider.num_pages", d.Provider.NumPages)

	v.SetDefault("mailbox.imap_host", d.Mailbox.IMAPHost)
	v.SetDefault("mailbox.imap_port", d.Mailbox.IMAPPort)
	v.SetDefault("mailbox.username", d.Mailbox.Username)
	v.SetDefault("mailbox.mailbox", d.Mailbox.Mailbox)
	v.SetDefault("mailbox.max_messages", d.Mailbox.MaxMessages)
	v.SetDefault("mailbox.since_days", d.Mailbox.SinceDays)

	v.SetDefault("greenhouse.boards", d.Greenhouse.Boards)

	v.SetDefault("usage.backend", d.Usage.Backend)
	v.SetDefault("usage.path", d.Usage.Path)
	v.SetDefault("usage.search_limit", d.Usage.SearchLimit)

	v.SetDefault("report.top_n", d.Report.TopN)
	v.SetDefault("report.export_top_n", d.Report.ExportTopN)
	v.SetDefault("report.csv_path", d.Report.CSVPath)
	v.SetDefault("report.chart_path", d.Report.ChartPath)

	v.SetDefault("vocabulary.tech_keywords", d.Vocabulary.TechKeywords)
	v.SetDefault("vocabulary.stopwords", d.Vocabulary.Stopwords)

	rules := make([]map[string]any, 0, len(d.Tagging.Rules))
	for _, r := range d.Tagging.Rules {
		rules = append(rules, map[string]any{"tag": r.Tag, "any": r.Any})
	}
	v.SetDefault("tagging.rules", rules)

	v.SetDefault("watch.roles", d.Watch.Roles)
	v.SetDefault("watch.interval_minutes", d.Watch.IntervalMinutes)
}

// Vocab builds the immutable extraction vocabulary from the config lists.
func (c Config) Vocab() skills.Vocabulary {
	return skills.NewVocabulary(c.Vocabulary.TechKeywords, c.Vocabulary.Stopwords)
}
