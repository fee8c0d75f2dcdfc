package model

// Config is the complete engine configuration. It is built once at
// startup and passed by value into the pipeline; nothing in the engine
// reads ambient state, so parallel runs over different configs are safe.
type Config struct {
	Thresholds  ThresholdConfig   `yaml:"thresholds"`
	Clients     ClientTable       `yaml:"clients"`
	Reasoning   ReasoningConfig   `yaml:"reasoning"`
	History     HistoryConfig     `yaml:"history"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`

	// RulesVersion is recorded on every ValidationResult for the audit trail
	RulesVersion string `yaml:"rules_version"`
}

// ThresholdConfig holds the numeric rule limits
type ThresholdConfig struct {
	// Phase delta bands in Celsius: above Review needs the Energy Marshal
	// annotation, above Reject fails outright
	PhaseDeltaReviewC float64 `yaml:"phase_delta_review_c"`
	PhaseDeltaRejectC float64 `yaml:"phase_delta_reject_c"`

	// Grounding resistance in ohms: Borderline triggers review, the
	// per-method map is the hard maximum for each recognized test method
	GroundingBorderlineOhms float64            `yaml:"grounding_borderline_ohms"`
	GroundingMethodMaxOhms  map[string]float64 `yaml:"grounding_method_max_ohms"`
}

// ClientTable maps client ids to their declared date dialect
type ClientTable struct {
	DateFormats map[string]DateFormat `yaml:"date_formats"`
	Default     DateFormat            `yaml:"default"`
}

// Profile resolves the profile for a client id, falling back to the
// table default for unknown clients
func (t ClientTable) Profile(clientID string) ClientProfile {
	if df, ok := t.DateFormats[clientID]; ok {
		return ClientProfile{ClientID: clientID, DateFormat: df}
	}
	return ClientProfile{ClientID: clientID, DateFormat: t.Default}
}

// ReasoningConfig configures the external reasoning service client.
// The engine itself never touches this; only the hosting layer does.
type ReasoningConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`

	// Rate limiting for batch runs (requests per second against the service)
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// HistoryConfig configures the local verdict store
type HistoryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"`       // defaults to ~/.verdict/history
	TTLHours int    `yaml:"ttl_hours"` // 0 = keep forever on disk
}

// ConcurrencyConfig bounds batch-mode parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults. Thresholds follow the
// commissioning standards the rules encode (ABNT NBR 5419 / IEEE 142
// for grounding, IEEE 43 for insulation).
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			PhaseDeltaReviewC:       3.0,
			PhaseDeltaRejectC:       15.0,
			GroundingBorderlineOhms: 5.0,
			GroundingMethodMaxOhms: map[string]float64{
				"fall-of-potential": 10.0,
				"slope":             10.0,
				"clamp-on":          10.0,
				"attached-rod":      10.0,
				"star-delta":        10.0,
			},
		},
		Clients: ClientTable{
			DateFormats: map[string]DateFormat{},
			Default:     DateFormatISO,
		},
		Reasoning: ReasoningConfig{
			Provider:      "", // Disabled by default
			Timeout:       30,
			MaxTokens:     1000,
			RatePerSecond: 1.0,
			Burst:         2,
		},
		History: HistoryConfig{
			Enabled:  true,
			TTLHours: 0,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		RulesVersion: "2026-08-15",
	}
}
