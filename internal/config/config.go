package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// maxCompletionTokens caps LLM output regardless of configuration; replies
// are short spoken-style turns by product contract.
const maxCompletionTokens = 200

// Config aggregates all service configuration.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Speech SpeechConfig

	// LexiconPath points at the static vocabulary resource.
	LexiconPath string

	// RequestTimeout bounds the outbound gateway calls per request.
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables. Both upstream
// gateways are load-bearing for the chat endpoint, so missing credentials
// are a startup error rather than a degraded mode.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}
	if !ai.Enabled() {
		return nil, fmt.Errorf("completion gateway not configured: set ARK_MODEL plus ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}
	if !speech.Enabled() {
		return nil, fmt.Errorf("speech gateway not configured: set SPEECH_APP_ID and SPEECH_ACCESS_TOKEN")
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("REQUEST_TIMEOUT"); err != nil {
		return nil, err
	} else if override != nil {
		if *override < 1 {
			return nil, fmt.Errorf("REQUEST_TIMEOUT must be at least 1 second")
		}
		timeoutSeconds = *override
	}

	return &Config{
		Server:         server,
		AI:             ai,
		Speech:         speech,
		LexiconPath:    getEnvOrDefault("LEXICON_PATH", "configs/lexicon.json"),
		RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	if strings.Contains(port, ":") {
		// Accept ":3000" or "127.0.0.1:3000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Ark completion model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens := maxCompletionTokens
	if override, err := parseOptionalIntEnv("ARK_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("ARK_MAX_TOKENS must be positive")
		}
		if *override < maxTokens {
			maxTokens = *override
		}
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// SpeechConfig describes the volcengine TTS credentials and voice defaults.
type SpeechConfig struct {
	AppID       string
	AccessToken string
	Voice       string
	Speed       float32
	Volume      float32
	Language    string
}

// Enabled reports whether the required credentials are present.
func (c SpeechConfig) Enabled() bool {
	return c.AppID != "" && c.AccessToken != ""
}

func loadSpeechConfig() (SpeechConfig, error) {
	speed := float32(1.0)
	if override, err := parseOptionalFloat32Env("SPEECH_TTS_SPEED"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil {
		speed = *override
	}

	volume := float32(1.0)
	if override, err := parseOptionalFloat32Env("SPEECH_TTS_VOLUME"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil {
		volume = *override
	}

	return SpeechConfig{
		AppID:       strings.TrimSpace(os.Getenv("SPEECH_APP_ID")),
		AccessToken: strings.TrimSpace(os.Getenv("SPEECH_ACCESS_TOKEN")),
		Voice:       getEnvOrDefault("SPEECH_TTS_VOICE", "ja_female_shirley_mars_bigtts"),
		Speed:       speed,
		Volume:      volume,
		Language:    getEnvOrDefault("SPEECH_TTS_LANGUAGE", "ja"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
