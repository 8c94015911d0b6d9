package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Host   string `yaml:"host,omitempty"`
}

// ScanConfig tunes the pipeline
type ScanConfig struct {
	ToolTimeout  time.Duration `yaml:"tool_timeout"`
	AITimeout    time.Duration `yaml:"ai_timeout"`
	ScanTimeout  time.Duration `yaml:"scan_timeout"`
	Concurrency  int           `yaml:"concurrency"`
	Prioritize   bool          `yaml:"prioritize"`
	AIExploits   bool          `yaml:"ai_exploits"`
	Explore      bool          `yaml:"explore"`
	Tools        []string      `yaml:"tools,omitempty"`
	TemplatesDir string        `yaml:"templates_dir,omitempty"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket,omitempty"`
}

type StorageConfig struct {
	ReportPath string   `yaml:"report_path"`
	S3         S3Config `yaml:"s3"`
}

type HistoryConfig struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
}

type WorkflowConfig struct {
	Host      string `yaml:"host,omitempty"`
	Namespace string `yaml:"namespace"`
	FlowID    string `yaml:"flow_id"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
	Scan             ScanConfig                `yaml:"scan"`
	Storage          StorageConfig             `yaml:"storage"`
	History          HistoryConfig             `yaml:"history"`
	Workflow         WorkflowConfig            `yaml:"workflow"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		SelectedProvider: "ollama",
		SelectedModel:    "deepseek-r1:14b",
		Providers:        make(map[string]ProviderConfig),
		Scan: ScanConfig{
			ToolTimeout: 5 * time.Minute,
			AITimeout:   60 * time.Second,
			ScanTimeout: 15 * time.Minute,
			Concurrency: 4,
			Prioritize:  true,
			AIExploits:  true,
			Explore:     true,
		},
		Storage: StorageConfig{
			ReportPath: "scan-report.json",
			S3:         S3Config{UseSSL: true, Bucket: "scan-reports"},
		},
		Workflow: WorkflowConfig{
			Namespace: "security",
			FlowID:    "bugbounty-security-scan",
		},
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".bugbounty-agent")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a config file on top of the defaults. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}

func (c *Config) SetHost(provider, host string) {
	p := c.Providers[provider]
	p.Host = host
	c.Providers[provider] = p
}

func (c *Config) GetHost(provider string) string {
	return c.Providers[provider].Host
}

// WithEnv returns a copy with environment overrides applied. The copy is
// never saved, so secrets from the environment stay out of the file.
func (c *Config) WithEnv() *Config {
	out := *c
	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}
	out.Scan.Tools = append([]string(nil), c.Scan.Tools...)

	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		out.SetAPIKey("gemini", v)
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		out.SetHost("ollama", v)
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" && out.SelectedProvider == "ollama" {
		out.SelectedModel = v
	}
	setString(&out.Workflow.Host, "KESTRA_HOST")
	setString(&out.History.DatabaseURL, "DATABASE_URL")
	setString(&out.Storage.S3.Endpoint, "S3_ENDPOINT")
	setString(&out.Storage.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&out.Storage.S3.SecretKey, "S3_SECRET_KEY")
	setString(&out.Storage.S3.Bucket, "REPORTS_BUCKET")
	if v := os.Getenv("S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			out.Storage.S3.UseSSL = b
		}
	}
	return &out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
