package config

import "time"

// IMAPConfig represents the configuration for the IMAP transport
type IMAPConfig struct {
	Host        string
	Port        int
	Folder      string
	BatchSize   int
	MaxMessages int
	Accounts    []string
}

// NLPConfig represents the configuration for the NLP provider selection
type NLPConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey          string
	ModelName       string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	MaxBodySize     int
	EntityThreshold float64
}

// RulesConfig represents the configuration for the rule repository
type RulesConfig struct {
	CSVPath        string
	ReloadInterval time.Duration
}

// StateConfig represents the configuration for the sync state store
type StateConfig struct {
	Type               string
	SQLitePath         string
	KnownContactsLimit int
}

// APIConfig represents the configuration for the persistence API client
type APIConfig struct {
	BaseURL    string
	Username   string
	Password   string
	Token      string
	EmployeeID int
	Timeout    time.Duration
}

// ExtractionConfig represents the tunables for contact extraction
type ExtractionConfig struct {
	MinCompanyConfidence   float64
	VendorPreferenceMargin float64
	BodySearchLimit        int
}

// GetIMAP returns the IMAP configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Host:        c.GetString("imap.host"),
		Port:        c.GetInt("imap.port"),
		Folder:      c.GetString("imap.folder"),
		BatchSize:   c.GetInt("imap.batch_size"),
		MaxMessages: c.GetInt("imap.max_messages"),
		Accounts:    c.GetStringSlice("imap.accounts"),
	}
}

// GetNLP returns the NLP provider configuration
func (c *Config) GetNLP() NLPConfig {
	return NLPConfig{
		Provider: c.GetString("nlp.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:          c.GetString("openai.api_key"),
		ModelName:       c.GetString("openai.model_name"),
		MaxTokens:       c.GetInt("openai.max_tokens"),
		Temperature:     float32(c.GetFloat64("openai.temperature")),
		TopP:            float32(c.GetFloat64("openai.top_p")),
		MaxBodySize:     c.GetInt("openai.max_body_size"),
		EntityThreshold: c.GetFloat64("openai.entity_threshold"),
	}
}

// GetRules returns the rule repository configuration
func (c *Config) GetRules() RulesConfig {
	interval, err := c.GetDuration("rules.reload_interval")
	if err != nil {
		interval = time.Hour
	}
	return RulesConfig{
		CSVPath:        c.GetString("rules.csv_path"),
		ReloadInterval: interval,
	}
}

// GetState returns the sync state store configuration
func (c *Config) GetState() StateConfig {
	return StateConfig{
		Type:               c.GetString("state.type"),
		SQLitePath:         c.GetString("state.sqlite_path"),
		KnownContactsLimit: c.GetInt("state.known_contacts_limit"),
	}
}

// GetAPI returns the persistence API configuration
func (c *Config) GetAPI() APIConfig {
	timeout, err := c.GetDuration("api.timeout")
	if err != nil {
		timeout = 30 * time.Second
	}
	return APIConfig{
		BaseURL:    c.GetString("api.base_url"),
		Username:   c.GetString("api.username"),
		Password:   c.GetString("api.password"),
		Token:      c.GetString("api.token"),
		EmployeeID: c.GetInt("api.employee_id"),
		Timeout:    timeout,
	}
}

// GetExtraction returns the extraction tunables
func (c *Config) GetExtraction() ExtractionConfig {
	return ExtractionConfig{
		MinCompanyConfidence:   c.GetFloat64("extraction.min_company_confidence"),
		VendorPreferenceMargin: c.GetFloat64("extraction.vendor_preference_margin"),
		BodySearchLimit:        c.GetInt("extraction.body_search_limit"),
	}
}
