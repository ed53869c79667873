package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Harvest  HarvestConfig  `yaml:"harvest" mapstructure:"harvest"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Layout   LayoutConfig   `yaml:"layout" mapstructure:"layout"`
	Citation CitationConfig `yaml:"citation" mapstructure:"citation"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// HarvestConfig configures the batched harvest run.
type HarvestConfig struct {
	BatchSize  int    `yaml:"batch_size" mapstructure:"batch_size"`
	InputPath  string `yaml:"input_path" mapstructure:"input_path"`
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
	ColumnName string `yaml:"column_name" mapstructure:"column_name"`
	SheetName  string `yaml:"sheet_name" mapstructure:"sheet_name"`
	ReportPath string `yaml:"report_path" mapstructure:"report_path"`
}

// SearchConfig configures the browser-driven search session.
type SearchConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	Headless    bool   `yaml:"headless" mapstructure:"headless"`
	BrowserBin  string `yaml:"browser_bin" mapstructure:"browser_bin"`
	DebuggerURL string `yaml:"debugger_url" mapstructure:"debugger_url"`

	ToggleSelector     string `yaml:"toggle_selector" mapstructure:"toggle_selector"`
	QueryFieldSelector string `yaml:"query_field_selector" mapstructure:"query_field_selector"`
	SubmitXPath        string `yaml:"submit_xpath" mapstructure:"submit_xpath"`
	RowXPath           string `yaml:"row_xpath" mapstructure:"row_xpath"`

	NavigationTimeoutSecs int `yaml:"navigation_timeout_secs" mapstructure:"navigation_timeout_secs"`
	ControlTimeoutSecs    int `yaml:"control_timeout_secs" mapstructure:"control_timeout_secs"`
	ResultsTimeoutSecs    int `yaml:"results_timeout_secs" mapstructure:"results_timeout_secs"`
	ReopenDelayMs         int `yaml:"reopen_delay_ms" mapstructure:"reopen_delay_ms"`
	SettleDelayMs         int `yaml:"settle_delay_ms" mapstructure:"settle_delay_ms"`
	OpenAttempts          int `yaml:"open_attempts" mapstructure:"open_attempts"`
}

// NavigationTimeout bounds the initial page load.
func (c SearchConfig) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutSecs) * time.Second
}

// ControlTimeout bounds waits for form controls.
func (c SearchConfig) ControlTimeout() time.Duration {
	return time.Duration(c.ControlTimeoutSecs) * time.Second
}

// ResultsTimeout bounds the wait for the first result row.
func (c SearchConfig) ResultsTimeout() time.Duration {
	return time.Duration(c.ResultsTimeoutSecs) * time.Second
}

// ReopenDelay is the pause after re-opening the search parameters.
func (c SearchConfig) ReopenDelay() time.Duration {
	return time.Duration(c.ReopenDelayMs) * time.Millisecond
}

// SettleDelay is the pause between results appearing and reading them.
func (c SearchConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// LayoutConfig holds 1-based result table cell positions.
type LayoutConfig struct {
	GlacierName     int `yaml:"glacier_name" mapstructure:"glacier_name"`
	Photographer    int `yaml:"photographer" mapstructure:"photographer"`
	Date            int `yaml:"date" mapstructure:"date"`
	SpatialCoverage int `yaml:"spatial_coverage" mapstructure:"spatial_coverage"`
	FileInfo        int `yaml:"file_info" mapstructure:"file_info"`
}

// CitationConfig configures the citation command.
type CitationConfig struct {
	MetadataPath string `yaml:"metadata_path" mapstructure:"metadata_path"`
	Accessed     string `yaml:"accessed" mapstructure:"accessed"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ICESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("harvest.batch_size", 20)
	v.SetDefault("harvest.input_path", "SampleMetadata_AKGlaciersProj.xlsx")
	v.SetDefault("harvest.output_path", "Updated_Metadata.xlsx")
	v.SetDefault("harvest.column_name", "File ID")
	v.SetDefault("harvest.sheet_name", "")
	v.SetDefault("harvest.report_path", "")
	v.SetDefault("search.url", "https://nsidc.org/data/glacier_photo/search/")
	v.SetDefault("search.headless", false)
	v.SetDefault("search.browser_bin", "")
	v.SetDefault("search.debugger_url", "")
	v.SetDefault("search.toggle_selector", "#search_arrow")
	v.SetDefault("search.query_field_selector", "#digital_file_id_field")
	v.SetDefault("search.submit_xpath", `//*[@id="searchButtons"]/input[1]`)
	v.SetDefault("search.row_xpath", `//tr[contains(@id,"_row")]`)
	v.SetDefault("search.navigation_timeout_secs", 60)
	v.SetDefault("search.control_timeout_secs", 10)
	v.SetDefault("search.results_timeout_secs", 15)
	v.SetDefault("search.reopen_delay_ms", 1000)
	v.SetDefault("search.settle_delay_ms", 2000)
	v.SetDefault("search.open_attempts", 3)
	v.SetDefault("layout.glacier_name", 3)
	v.SetDefault("layout.photographer", 4)
	v.SetDefault("layout.date", 5)
	v.SetDefault("layout.spatial_coverage", 6)
	v.SetDefault("layout.file_info", 7)
	v.SetDefault("citation.metadata_path", "Merged_Metadata.xlsx")
	v.SetDefault("citation.accessed", "May 2025")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a harvest run depends on.
func (c *Config) Validate() error {
	var problems []string
	if c.Harvest.BatchSize < 1 {
		problems = append(problems, "harvest.batch_size must be at least 1")
	}
	if c.Harvest.InputPath == "" {
		problems = append(problems, "harvest.input_path is required")
	}
	if c.Harvest.OutputPath == "" {
		problems = append(problems, "harvest.output_path is required")
	}
	if c.Harvest.ColumnName == "" {
		problems = append(problems, "harvest.column_name is required")
	}
	if c.Search.ResultsTimeoutSecs < 1 {
		problems = append(problems, "search.results_timeout_secs must be at least 1")
	}
	if c.Search.ReopenDelayMs < 0 || c.Search.SettleDelayMs < 0 {
		problems = append(problems, "search delays must not be negative")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
