package internal

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/harvester/internal/contract"
	"github.com/starford/harvester/internal/publisher"
)

// Upstream environments.
const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

const (
	sandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com/v3/company"
	productionBaseURL = "https://quickbooks.api.intuit.com/v3/company"
)

var httpURL = validation.Match(regexp.MustCompile(`^https?://[^\s]+$`)).Error("must be an http(s) URL")

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Upstream   UpstreamConfig    `yaml:"upstream"`
	Relay      RelayConfig       `yaml:"relay"`
	Callback   CallbackConfig    `yaml:"callback"`
	Downstream DownstreamConfig  `yaml:"downstream"`
	Run        RunConfig         `yaml:"run"`
	Materials  MaterialsConfig   `yaml:"materials"`
	Customers  CustomersConfig   `yaml:"customers"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Export     ExportConfig      `yaml:"export"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []interface{ Validate() error }{
		&c.Upstream, &c.Relay, &c.Callback, &c.Downstream,
		&c.Run, &c.Materials, &c.Customers, &c.SQLite,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// UpstreamConfig describes the accounting API and its OAuth client.
type UpstreamConfig struct {
	Environment       string        `yaml:"environment"`
	BaseURL           string        `yaml:"base_url"`
	AuthURL           string        `yaml:"auth_url"`
	TokenURL          string        `yaml:"token_url"`
	ClientID          string        `yaml:"client_id"`
	ClientSecret      string        `yaml:"client_secret"`
	RedirectURI       string        `yaml:"redirect_uri"`
	Scopes            []string      `yaml:"scopes"`
	TokensPath        string        `yaml:"tokens_path"`
	MinorVersion      int           `yaml:"minor_version"`
	PageSize          int           `yaml:"page_size"`
	CustomerScanLimit int           `yaml:"customer_scan_limit"`
	RateLimitPerMin   int           `yaml:"rate_limit_per_min"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	DocumentTimeout   time.Duration `yaml:"document_timeout"`
}

// APIBase returns BaseURL, or the well-known base of the environment.
func (c *UpstreamConfig) APIBase() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if strings.EqualFold(c.Environment, EnvProduction) {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// Validate validates the upstream configuration.
func (c *UpstreamConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.In(EnvSandbox, EnvProduction)),
		validation.Field(&c.BaseURL, httpURL),
		validation.Field(&c.AuthURL, validation.Required, httpURL),
		validation.Field(&c.TokenURL, validation.Required, httpURL),
		validation.Field(&c.RedirectURI, validation.Required, httpURL),
		validation.Field(&c.TokensPath, validation.Required),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(1000)),
		validation.Field(&c.CustomerScanLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.RateLimitPerMin, validation.Min(0)),
	)
}

// RelayConfig enables the hosted callback relay.
type RelayConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Auth     string        `yaml:"auth"`
	Attempts int           `yaml:"attempts"`
	Interval time.Duration `yaml:"interval"`
}

// Validate validates the relay configuration.
func (c *RelayConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, httpURL),
		validation.Field(&c.Attempts, validation.Min(0)),
	)
}

// CallbackConfig configures the local redirect listener.
type CallbackConfig struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the callback configuration.
func (c *CallbackConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Address, validation.Required),
	)
}

// DownstreamConfig describes the marketplace the contracts go to.
type DownstreamConfig struct {
	BuyerBase      string        `yaml:"buyer_base"`
	SellerBase     string        `yaml:"seller_base"`
	Target         string        `yaml:"target"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	Seller         string        `yaml:"seller"`
	PublishEnabled bool          `yaml:"publish_enabled"`
	ImportMode     string        `yaml:"import_mode"`
	Env            string        `yaml:"env"`
	Timeout        time.Duration `yaml:"timeout"`
	SkipPublished  bool          `yaml:"skip_published"`
}

// Validate validates the downstream configuration.
func (c *DownstreamConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BuyerBase, validation.Required, httpURL),
		validation.Field(&c.SellerBase, validation.Required, httpURL),
		validation.Field(&c.Target, validation.Required, validation.In(
			string(publisher.TargetBuyer), string(publisher.TargetSeller), string(publisher.TargetAuto))),
		validation.Field(&c.Seller, validation.Required),
	)
}

// RunConfig scopes one harvest.
type RunConfig struct {
	Customers      []string `yaml:"customers"`
	DateWindowDays int      `yaml:"date_window_days"`
	OutputDir      string   `yaml:"output_dir"`
	UnknownUnit    string   `yaml:"unknown_unit"`
}

// Validate validates the run configuration.
func (c *RunConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DateWindowDays, validation.Required, validation.Min(1)),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.UnknownUnit, validation.In(
			string(contract.UnitPounds), string(contract.UnitTons), string(contract.UnitSkip))),
	)
}

// MaterialsConfig locates the material reference data.
type MaterialsConfig struct {
	MappingPath   string  `yaml:"mapping_path"`
	OverridesPath string  `yaml:"overrides_path"`
	UnmappedPath  string  `yaml:"unmapped_path"`
	FuzzyCutoff   float64 `yaml:"fuzzy_cutoff"`
}

// Validate validates the materials configuration.
func (c *MaterialsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UnmappedPath, validation.Required),
		validation.Field(&c.FuzzyCutoff, validation.Required, validation.Min(0.0), validation.Max(1.0)),
	)
}

// CustomersConfig tunes customer resolution.
type CustomersConfig struct {
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff"`
}

// Validate validates the customers configuration.
func (c *CustomersConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FuzzyCutoff, validation.Required, validation.Min(0.0), validation.Max(1.0)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ExportConfig toggles optional artifacts.
type ExportConfig struct {
	XLSX bool `yaml:"xlsx"`
}

// Disabled reports whether the kill switch value v stubs downstream publishing.
func Disabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Upstream: UpstreamConfig{
			Environment:       EnvSandbox,
			AuthURL:           "https://appcenter.intuit.com/connect/oauth2",
			TokenURL:          "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer",
			RedirectURI:       "http://localhost:5055/callback",
			Scopes:            []string{"com.intuit.quickbooks.accounting"},
			TokensPath:        "qbo_tokens.json",
			MinorVersion:      65,
			PageSize:          500,
			CustomerScanLimit: 1000,
			RequestTimeout:    30 * time.Second,
			DocumentTimeout:   120 * time.Second,
		},
		Relay: RelayConfig{
			Attempts: 240,
			Interval: 500 * time.Millisecond,
		},
		Callback: CallbackConfig{
			Address: "localhost:5055",
			Timeout: 5 * time.Minute,
		},
		Downstream: DownstreamConfig{
			BuyerBase:      "https://bridge-buyer.onrender.com",
			SellerBase:     "https://scrapfutures.com",
			Target:         string(publisher.TargetSeller),
			Seller:         "Winski Brothers",
			PublishEnabled: true,
			ImportMode:     publisher.ImportHistorical,
			Timeout:        25 * time.Second,
		},
		Run: RunConfig{
			DateWindowDays: 36500,
			OutputDir:      "./qbo_out",
			UnknownUnit:    string(contract.UnitPounds),
		},
		Materials: MaterialsConfig{
			MappingPath:   "materials_map.csv",
			OverridesPath: "materials_overrides.yaml",
			UnmappedPath:  "unmapped_materials.csv",
			FuzzyCutoff:   0.88,
		},
		Customers: CustomersConfig{
			FuzzyCutoff: 0.6,
		},
		SQLite: SQLiteConfig{
			Path: "./harvester.db",
		},
	}
}
