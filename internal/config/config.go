// Package config reads socialdash settings from the environment and local
// .env files.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/gauthierbraillon/socialdash/internal/graph"
	"github.com/gauthierbraillon/socialdash/internal/ingest"
	"github.com/gauthierbraillon/socialdash/internal/social"
	"github.com/gauthierbraillon/socialdash/pkg/httpjson"
)

// Default per-identifier fetch limits.
const (
	DefaultYouTubeLimit   = 30
	DefaultFacebookLimit  = 20
	DefaultInstagramLimit = 20
)

const (
	DefaultSampleDir     = "data"
	DefaultAddr          = ":8080"
	DefaultYouTubeAPIURL = "https://www.googleapis.com"
)

// EnvFiles are loaded in order; variables already set in the process win.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnv loads the local env files that exist.
func LoadEnv(logger logrus.FieldLogger) {
	loaded := make([]string, 0, len(EnvFiles))
	for _, file := range EnvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			logger.WithError(err).Warnf("Failed to load %s", file)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) == 0 {
		logger.Debug("No local env files loaded; relying on process environment")
		return
	}
	logger.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
}

// PlatformConfig holds the live source settings of one platform.
type PlatformConfig struct {
	Identifiers []string
	Credential  string
	Limit       int
	UseSample   bool
}

// Config is the full runtime configuration.
type Config struct {
	Platforms     map[social.Platform]PlatformConfig
	SampleDir     string
	HTTPTimeout   time.Duration
	YouTubeAPIURL string
	GraphAPIURL   string
	Addr          string
	LogLevel      string
	LogFormat     string
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	timeout, err := GetEnvDuration("SOCIALDASH_HTTP_TIMEOUT", httpjson.DefaultTimeout)
	if err != nil {
		return Config{}, err
	}
	useSample, err := parseSampleSet(os.Getenv("SOCIALDASH_USE_SAMPLE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Platforms: map[social.Platform]PlatformConfig{
			social.PlatformYouTube: {
				Identifiers: SplitList(os.Getenv("SOCIALDASH_YOUTUBE_CHANNELS")),
				Credential:  os.Getenv("YOUTUBE_API_KEY"),
				Limit:       DefaultYouTubeLimit,
			},
			social.PlatformFacebook: {
				Identifiers: SplitList(os.Getenv("SOCIALDASH_FACEBOOK_PAGES")),
				Credential:  os.Getenv("FACEBOOK_ACCESS_TOKEN"),
				Limit:       DefaultFacebookLimit,
			},
			social.PlatformInstagram: {
				Identifiers: SplitList(os.Getenv("SOCIALDASH_INSTAGRAM_USERS")),
				Credential:  os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
				Limit:       DefaultInstagramLimit,
			},
		},
		SampleDir:     GetEnv("SOCIALDASH_SAMPLE_DIR", DefaultSampleDir),
		HTTPTimeout:   timeout,
		YouTubeAPIURL: GetEnv("SOCIALDASH_YOUTUBE_API_URL", DefaultYouTubeAPIURL),
		GraphAPIURL:   GetEnv("SOCIALDASH_GRAPH_API_URL", graph.DefaultBaseURL),
		Addr:          GetEnv("SOCIALDASH_ADDR", DefaultAddr),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		LogFormat:     GetEnv("LOG_FORMAT", "text"),
	}
	for p, pc := range cfg.Platforms {
		pc.UseSample = useSample[p]
		cfg.Platforms[p] = pc
	}
	return cfg, nil
}

// UseSampleFor forces the sample source for the given platforms.
func (c Config) UseSampleFor(platforms ...social.Platform) {
	for _, p := range platforms {
		pc := c.Platforms[p]
		pc.UseSample = true
		c.Platforms[p] = pc
	}
}

// Sources converts the configuration into ingest sources. A live platform
// without identifiers is left out.
func (c Config) Sources() ingest.Sources {
	sources := make(ingest.Sources, len(c.Platforms))
	for p, pc := range c.Platforms {
		if !pc.UseSample && len(pc.Identifiers) == 0 {
			continue
		}
		sources[p] = ingest.Source{
			UseSample:   pc.UseSample,
			Identifiers: pc.Identifiers,
			Credential:  pc.Credential,
			Limit:       pc.Limit,
		}
	}
	return sources
}

const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvDuration parses a duration variable ("45s", or plain seconds such
// as "30" or "1.5").
func GetEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	var d time.Duration
	var err error
	if secs, numErr := cast.ToFloat64E(value); numErr == nil {
		if !(secs > 0) || secs > maxDurationSeconds {
			return 0, fmt.Errorf("invalid %s %q: must be a positive duration such as 30s", key, value)
		}
		d = time.Duration(secs * float64(time.Second))
	} else {
		d, err = cast.ToDurationE(value)
	}
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration such as 30s", key, value)
	}
	return d, nil
}

// SplitList splits a comma separated list, trimming entries and dropping blanks.
func SplitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParsePlatforms parses platform names, accepting "all" for every platform.
func ParsePlatforms(names []string) ([]social.Platform, error) {
	out := make([]social.Platform, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			return append([]social.Platform(nil), social.Platforms...), nil
		}
		p, err := social.ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseSampleSet(value string) (map[social.Platform]bool, error) {
	platforms, err := ParsePlatforms(SplitList(value))
	if err != nil {
		return nil, fmt.Errorf("invalid SOCIALDASH_USE_SAMPLE: %w", err)
	}
	set := make(map[social.Platform]bool, len(platforms))
	for _, p := range platforms {
		set[p] = true
	}
	return set, nil
}
