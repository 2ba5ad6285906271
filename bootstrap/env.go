package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/spf13/viper"
)

type Env struct {
	AppEnv         string `mapstructure:"APP_ENV"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	ContextTimeout int    `mapstructure:"CONTEXT_TIMEOUT"`
	AITimeout      int    `mapstructure:"AI_TIMEOUT"`

	MongoURI              string `mapstructure:"MONGO_URI"`
	MongoCurrentDB        string `mapstructure:"MONGO_CURRENT_DB"`
	MongoDB               string `mapstructure:"MONGO_DB"`
	MongoPiecesCollection string `mapstructure:"MONGO_PIECES_COLLECTION"`
	HealthcheckDB         bool   `mapstructure:"HEALTHCHECK_DB"`

	ScraperBaseURL   string  `mapstructure:"SCRAPER_BASE_URL"`
	ScraperUserAgent string  `mapstructure:"SCRAPER_USER_AGENT"`
	ScrappingDelay   float64 `mapstructure:"SCRAPPING_DELAY"`
	MaxPieces        int     `mapstructure:"MAX_PIECES"`

	AnthropicAPIKey       string `mapstructure:"ANTHROPIC_API_KEY"`
	LLMBaseURL            string `mapstructure:"LLM_BASE_URL"`
	LLMModel              string `mapstructure:"LLM_MODEL"`
	LLMInfoFallbackModel  string `mapstructure:"LLM_INFO_FALLBACK_MODEL"`
	LLMNotesFallbackModel string `mapstructure:"LLM_NOTES_FALLBACK_MODEL"`
	NotesMaxPages         int    `mapstructure:"NOTES_MAX_PAGES"`

	PexelsAPIKey   string `mapstructure:"PEXELS_API_KEY"`
	GoogleImageAPI string `mapstructure:"GOOGLE_IMAGE_API"`
	GoogleImageCX  string `mapstructure:"GOOGLE_IMAGE_CX"`

	AccessTokenSecret string `mapstructure:"ACCESS_TOKEN_SECRET"`
	CORSAllowOrigins  string `mapstructure:"CORS_ALLOW_ORIGINS"`
	FaviconPath       string `mapstructure:"FAVICON_PATH"`
}

var envDefaults = map[string]interface{}{
	"APP_ENV":                  "development",
	"SERVER_ADDRESS":           ":9000",
	"CONTEXT_TIMEOUT":          10,
	"AI_TIMEOUT":               120,
	"MONGO_URI":                "mongodb://localhost:27017",
	"MONGO_CURRENT_DB":         "",
	"MONGO_DB":                 "music_sheets_db",
	"MONGO_PIECES_COLLECTION":  domain.CollectionPiecesMetadata,
	"HEALTHCHECK_DB":           false,
	"SCRAPER_BASE_URL":         "https://www.mutopiaproject.org/",
	"SCRAPER_USER_AGENT":       "MutopiaA4Scraper/1.0 (personal use)",
	"SCRAPPING_DELAY":          1.0,
	"MAX_PIECES":               0,
	"ANTHROPIC_API_KEY":        "",
	"LLM_BASE_URL":             "https://api.anthropic.com",
	"LLM_MODEL":                "claude-3-5-haiku-latest",
	"LLM_INFO_FALLBACK_MODEL":  "claude-3-5-haiku-latest",
	"LLM_NOTES_FALLBACK_MODEL": "claude-sonnet-4-5",
	"NOTES_MAX_PAGES":          20,
	"PEXELS_API_KEY":           "",
	"GOOGLE_IMAGE_API":         "",
	"GOOGLE_IMAGE_CX":          "",
	"ACCESS_TOKEN_SECRET":      "",
	"CORS_ALLOW_ORIGINS":       "",
	"FAVICON_PATH":             "favicon.ico",
}

// NewEnv reads configuration from the optional file at path (a .env file by
// convention) and the process environment; the environment wins.
func NewEnv(path string) (*Env, error) {
	v := viper.New()
	for key, value := range envDefaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		}
	}

	env := Env{}
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &env, nil
}

// DatabaseName prefers MONGO_CURRENT_DB over MONGO_DB.
func (e *Env) DatabaseName() string {
	if e.MongoCurrentDB != "" {
		return e.MongoCurrentDB
	}
	return e.MongoDB
}

func (e *Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production") || strings.EqualFold(e.AppEnv, "prod")
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (e *Env) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(e.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
