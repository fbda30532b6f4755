package config

import (
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	HTTP struct {
		ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`
	} `yaml:"http"`

	FranceTravail struct {
		BaseURL      string `yaml:"base_url" default:"https://api.francetravail.io/partenaire"`
		TokenURL     string `yaml:"token_url" default:"https://entreprise.francetravail.fr/connexion/oauth2/access_token?realm=/partenaire"`
		Scope        string `yaml:"scope" default:"api_offresdemploiv2 o2dsoffre"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		MaxResults   int    `yaml:"max_results" default:"100"`
		// The offers API rejects more than 5 department codes per request
		DepartmentsPerRequest int `yaml:"departments_per_request" default:"5"`
		RateLimit             int `yaml:"rate_limit" default:"10"` // requests per second
	} `yaml:"francetravail"`

	Sirene struct {
		BaseURL    string `yaml:"base_url" default:"https://api.insee.fr/entreprises/sirene/V3.11"`
		APIKey     string `yaml:"api_key"`
		MaxResults int    `yaml:"max_results" default:"20"`
		// Department OR-groups are capped at 10 codes per request; codes
		// beyond the cap are dropped (known upstream limitation, kept as-is)
		DepartmentsPerRequest int      `yaml:"departments_per_request" default:"10"`
		NAFCodes              []string `yaml:"naf_codes"`
		RateLimit             int      `yaml:"rate_limit" default:"10"`
	} `yaml:"sirene"`

	Pappers struct {
		BaseURL  string `yaml:"base_url" default:"https://api.pappers.fr/v2"`
		APIToken string `yaml:"api_token"`
		PageSize int    `yaml:"page_size" default:"20"`
		// Legal-form codes of sociétés commerciales; the "exclude sole
		// proprietors" flag expands to this allow-list
		CommercialLegalForms []string `yaml:"commercial_legal_forms"`
		RateLimit            int      `yaml:"rate_limit" default:"10"`
	} `yaml:"pappers"`

	Search struct {
		DefaultKeywords string `yaml:"default_keywords" default:"développeur java"`
	} `yaml:"search"`

	Export struct {
		CSVSeparator    string `yaml:"csv_separator" default:";"`
		DefaultCSVName  string `yaml:"default_csv_name" default:"resultats_entreprises.csv"`
		DefaultJSONName string `yaml:"default_json_name" default:"resultats_entreprises.json"`
	} `yaml:"export"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"4"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"600s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	mu sync.RWMutex
}

// defaultNAFCodes are the IT sector activity codes searched by default.
var defaultNAFCodes = []string{
	"62.01Z", "62.02A", "62.02B", "62.03Z", "62.09Z", "63.11Z", "63.12Z",
}

// defaultCommercialLegalForms lists the SARL/SAS/SASU/SA family of legal-form
// codes used when excluding sole proprietorships. Completeness of the list is
// a product decision, so it lives in configuration rather than code.
var defaultCommercialLegalForms = []string{
	"5499", "5505", "5510", "5515", "5520", "5530", "5542", "5543", "5546",
	"5547", "5548", "5551", "5552", "5553", "5554", "5558", "5559", "5560",
	"5570", "5585", "5599", "5605", "5610", "5615", "5620", "5622", "5625",
	"5630", "5650", "5651", "5660", "5670", "5685", "5699", "5710", "5720",
	"5770", "5785", "5800",
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.HTTP.ConnectTimeout = 10 * time.Second

	config.FranceTravail.BaseURL = "https://api.francetravail.io/partenaire"
	config.FranceTravail.TokenURL = "https://entreprise.francetravail.fr/connexion/oauth2/access_token?realm=/partenaire"
	config.FranceTravail.Scope = "api_offresdemploiv2 o2dsoffre"
	config.FranceTravail.MaxResults = 100
	config.FranceTravail.DepartmentsPerRequest = 5
	config.FranceTravail.RateLimit = 10

	config.Sirene.BaseURL = "https://api.insee.fr/entreprises/sirene/V3.11"
	config.Sirene.MaxResults = 20
	config.Sirene.DepartmentsPerRequest = 10
	config.Sirene.NAFCodes = append([]string(nil), defaultNAFCodes...)
	config.Sirene.RateLimit = 10

	config.Pappers.BaseURL = "https://api.pappers.fr/v2"
	config.Pappers.PageSize = 20
	config.Pappers.CommercialLegalForms = append([]string(nil), defaultCommercialLegalForms...)
	config.Pappers.RateLimit = 10

	config.Search.DefaultKeywords = "développeur java"

	config.Export.CSVSeparator = ";"
	config.Export.DefaultCSVName = "resultats_entreprises.csv"
	config.Export.DefaultJSONName = "resultats_entreprises.json"

	config.BackgroundTasks.MaxConcurrentTasks = 4
	config.BackgroundTasks.TaskTimeout = 600 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if clientID := os.Getenv("FRANCETRAVAIL_CLIENT_ID"); clientID != "" {
		c.FranceTravail.ClientID = clientID
	}

	if clientSecret := os.Getenv("FRANCETRAVAIL_CLIENT_SECRET"); clientSecret != "" {
		c.FranceTravail.ClientSecret = clientSecret
	}

	if scope := os.Getenv("FRANCETRAVAIL_SCOPE"); scope != "" {
		c.FranceTravail.Scope = scope
	}

	if baseURL := os.Getenv("FRANCETRAVAIL_BASE_URL"); baseURL != "" {
		c.FranceTravail.BaseURL = baseURL
	}

	if tokenURL := os.Getenv("FRANCETRAVAIL_TOKEN_URL"); tokenURL != "" {
		c.FranceTravail.TokenURL = tokenURL
	}

	if apiKey := os.Getenv("SIRENE_API_KEY"); apiKey != "" {
		c.Sirene.APIKey = apiKey
	}

	if baseURL := os.Getenv("SIRENE_BASE_URL"); baseURL != "" {
		c.Sirene.BaseURL = baseURL
	}

	if apiToken := os.Getenv("PAPPERS_API_TOKEN"); apiToken != "" {
		c.Pappers.APIToken = apiToken
	}

	if baseURL := os.Getenv("PAPPERS_BASE_URL"); baseURL != "" {
		c.Pappers.BaseURL = baseURL
	}

	if timeout := os.Getenv("HTTP_CONNECT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.HTTP.ConnectTimeout = d
		}
	}

	if separator := os.Getenv("EXPORT_CSV_SEPARATOR"); separator != "" {
		c.Export.CSVSeparator = separator
	}
}

// HasFranceTravailCredentials reports whether a client ID and secret are set.
func (c *Config) HasFranceTravailCredentials() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.FranceTravail.ClientID != "" && c.FranceTravail.ClientSecret != ""
}

// HasSireneAPIKey reports whether the SIRENE API key is configured.
func (c *Config) HasSireneAPIKey() bool {
	return c.Sirene.APIKey != ""
}

// HasPappersAPIToken reports whether the Pappers API token is configured.
func (c *Config) HasPappersAPIToken() bool {
	return c.Pappers.APIToken != ""
}

// SetFranceTravailCredentials stores credentials supplied through the token
// endpoint so later searches can re-authenticate without resending them.
func (c *Config) SetFranceTravailCredentials(clientID, clientSecret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FranceTravail.ClientID = clientID
	c.FranceTravail.ClientSecret = clientSecret
}
