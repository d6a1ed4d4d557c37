package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings is everything the server reads from the environment.
type Settings struct {
	Port          string
	AllowOrigins  string
	DBURL         string
	RunMigrations bool

	LLMProvider  string
	LLMModel     string
	OpenAIKey    string
	GroqKey      string
	GeminiKey    string
	Temperature  float64
	GenTimeout   time.Duration
	CanvasWidth  float64
	CanvasHeight float64
	// MaxCanvasWidth and MaxCanvasHeight bound the canvas a client may request.
	MaxCanvasWidth  float64
	MaxCanvasHeight float64

	GCPProject     string
	GCPLocation    string
	GCPCredentials string
	GCSBucket      string
	ImageDir       string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		Port:           getEnv("PORT", "8000"),
		AllowOrigins:   getEnv("ALLOW_ORIGINS", "*"),
		DBURL:          os.Getenv("DB_URL"),
		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:       os.Getenv("LLM_MODEL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GroqKey:        os.Getenv("GROQ_API_KEY"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GCPProject:     os.Getenv("GOOGLE_CLOUD_VERTEXAI_PROJECT"),
		GCPLocation:    getEnv("GOOGLE_CLOUD_VERTEXAI_LOCATION", "us-east5"),
		GCPCredentials: os.Getenv("GCP_SERVICE_ACCOUNT_CREDENTIALS"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
		ImageDir:       getEnv("IMAGE_DIR", "temp/images"),
	}

	var err error
	if s.RunMigrations, err = getBool("RUN_MIGRATIONS", true); err != nil {
		return nil, err
	}
	if s.Temperature, err = getFloat("LLM_TEMPERATURE", 0.3); err != nil {
		return nil, err
	}
	if s.CanvasWidth, err = getFloat("CANVAS_WIDTH", 500); err != nil {
		return nil, err
	}
	if s.CanvasHeight, err = getFloat("CANVAS_HEIGHT", 500); err != nil {
		return nil, err
	}
	if s.MaxCanvasWidth, err = getFloat("MAX_CANVAS_WIDTH", 4096); err != nil {
		return nil, err
	}
	if s.MaxCanvasHeight, err = getFloat("MAX_CANVAS_HEIGHT", 4096); err != nil {
		return nil, err
	}
	if s.GenTimeout, err = getDuration("GENERATION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if s.CanvasWidth <= 0 || s.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %vx%v", s.CanvasWidth, s.CanvasHeight)
	}
	if s.CanvasWidth > s.MaxCanvasWidth || s.CanvasHeight > s.MaxCanvasHeight {
		return nil, fmt.Errorf("canvas %vx%v exceeds the maximum %vx%v", s.CanvasWidth, s.CanvasHeight, s.MaxCanvasWidth, s.MaxCanvasHeight)
	}
	return s, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
