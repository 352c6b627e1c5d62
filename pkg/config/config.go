// Package config は環境変数と .env ファイルから実行時設定を読み込みます。
package config

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shouni/gemini-interior-kit/pkg/imgutil"
)

// Config はプロセス全体の設定です。
type Config struct {
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string

	AccessCodes []string
	AdminCode   string

	TextImageModels []string
	ImagenModels    []string
	TextModels      []string

	MaxImageDimension int
	SampleCount       int

	HTTPTimeout   time.Duration
	PreferIPv4    bool
	WebAddr       string
	MaxConcurrent int

	LogLevel string
}

// Load はカレントディレクトリの .env を読み込んだ後に環境変数から設定を作ります。
// .env が無くてもエラーにはしません。既に設定済みの環境変数は上書きされません。
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv は現在の環境変数だけから設定を作ります。
func FromEnv() (Config, error) {
	cfg := Config{
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", ""),
		GeminiAPIVersion:  getEnv("GEMINI_API_VERSION", ""),
		AccessCodes:       splitCSV(os.Getenv("ACCESS_CODES")),
		AdminCode:         strings.TrimSpace(os.Getenv("ADMIN_CODE")),
		TextImageModels:   splitCSV(os.Getenv("TEXT_IMAGE_MODELS")),
		ImagenModels:      splitCSV(os.Getenv("IMAGEN_MODELS")),
		TextModels:        splitCSV(os.Getenv("TEXT_MODELS")),
		MaxImageDimension: getEnvInt("MAX_IMAGE_DIMENSION", imgutil.DefaultMaxDimension),
		SampleCount:       getEnvInt("SAMPLE_COUNT", 1),
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		PreferIPv4:        getEnvBool("PREFER_IPV4", false),
		WebAddr:           getEnv("WEB_ADDR", ":8080"),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", 4),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.MaxImageDimension < 1 {
		cfg.MaxImageDimension = imgutil.DefaultMaxDimension
	}
	if cfg.SampleCount < 1 || cfg.SampleCount > 4 {
		cfg.SampleCount = 1
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}

	return cfg, nil
}

// ValidAccessCode はコードが許可リストに含まれるかを判定します。
// 許可リストが空のときは誰も通しません。比較は定数時間で行い、途中で打ち切りません。
func (c Config) ValidAccessCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	matched := 0
	for _, allowed := range c.AccessCodes {
		matched |= subtle.ConstantTimeCompare([]byte(code), []byte(allowed))
	}
	return matched == 1
}

// ValidAdminCode は管理用コードを定数時間で比較します。未設定なら常に false です。
func (c Config) ValidAdminCode(code string) bool {
	if c.AdminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(c.AdminCode)) == 1
}

// SlogLevel は LOG_LEVEL を slog のレベルに変換します。
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
