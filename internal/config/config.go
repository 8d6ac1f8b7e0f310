package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"attrition-relay/internal/sheets"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is read when LoadConfig is given no env files.
const DefaultEnvFile = ".env"

// Predictor modes
const (
	PredictorModeExec = "exec"
	PredictorModeHTTP = "http"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn, error
		Format string `yaml:"format"` // "console" or "json"
	} `yaml:"log"`

	Sheets struct {
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		Range           string `yaml:"range"`
		CredentialsFile string `yaml:"credentials_file"`
		Endpoint        string `yaml:"endpoint"`
	} `yaml:"sheets"`

	Predictor struct {
		Mode    string        `yaml:"mode"` // "exec" or "http"
		Command string        `yaml:"command"`
		Args    []string      `yaml:"args"`
		Dir     string        `yaml:"dir"`
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"` // 0 disables
	} `yaml:"predictor"`

	Row struct {
		AvatarTemplate string `yaml:"avatar_template"`
		DeleteTemplate string `yaml:"delete_template"`
		DeleteScript   string `yaml:"delete_script_url"`
		DeleteRow      int    `yaml:"delete_row"`
	} `yaml:"row"`
}

// LoadConfig loads configuration from a YAML file, then applies environment
// overrides and defaults. Env files are loaded into the process environment
// first without replacing variables that are already set. Missing files are
// not an error.
func LoadConfig(configPath string, envFiles ...string) (*Config, error) {
	config := &Config{}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	file, err := os.Open(configPath)
	switch {
	case err == nil:
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	case os.IsNotExist(err):
		// env and defaults only
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	config.expandEnv()
	config.applyEnvOverrides()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFiles(paths []string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// expandEnv resolves ${VAR} references in string settings.
func (c *Config) expandEnv() {
	c.Sheets.SpreadsheetID = os.ExpandEnv(c.Sheets.SpreadsheetID)
	c.Sheets.CredentialsFile = os.ExpandEnv(c.Sheets.CredentialsFile)
	c.Predictor.Command = os.ExpandEnv(c.Predictor.Command)
	c.Predictor.URL = os.ExpandEnv(c.Predictor.URL)
	c.Predictor.Dir = os.ExpandEnv(c.Predictor.Dir)
	for i := range c.Predictor.Args {
		c.Predictor.Args[i] = os.ExpandEnv(c.Predictor.Args[i])
	}
}

// applyEnvOverrides lets plain environment variables win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("PREDICTOR_MODE"); v != "" {
		c.Predictor.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("PREDICTOR_URL"); v != "" {
		c.Predictor.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.Sheets.Range == "" {
		c.Sheets.Range = sheets.DefaultRange
	}

	if c.Sheets.CredentialsFile == "" {
		c.Sheets.CredentialsFile = sheets.DefaultCredsFile
	}

	if c.Predictor.Mode == "" {
		c.Predictor.Mode = PredictorModeExec
	}

	if c.Predictor.Command == "" && len(c.Predictor.Args) == 0 {
		c.Predictor.Command = "python"
		c.Predictor.Args = []string{"predict_attrition.py"}
	}
}

// Validate checks that the settings needed at startup are present.
func (c *Config) Validate() error {
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("spreadsheet ID is required (sheets.spreadsheet_id or SPREADSHEET_ID)")
	}

	switch c.Predictor.Mode {
	case PredictorModeExec:
		if c.Predictor.Command == "" {
			return errors.New("predictor.command is required in exec mode")
		}
	case PredictorModeHTTP:
		if c.Predictor.URL == "" {
			return errors.New("predictor.url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown predictor mode %q", c.Predictor.Mode)
	}

	return nil
}
