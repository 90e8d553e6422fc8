package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Browser    Browser
	Artifacts  Artifacts
	Fixtures   Fixtures
	Sessions   Sessions
	Snapshots  Snapshots
	Logger     Logger
	Database   Database
	Migrations Migrations
	Server     Server
}

type Browser struct {
	Name            string
	Headless        bool
	SlowMo          float64
	BaseURL         string
	MobileDevice    string
	ViewportWidth   int
	ViewportHeight  int
	Timeout         time.Duration
	NavigateTimeout time.Duration
	BrowsersPath    string
}

// Artifacts хранит режимы захвата артефактов в сыром виде,
// разбор режимов делает пакет artifacts.
type Artifacts struct {
	Dir         string
	Screenshots string
	Videos      string
	Trace       string
}

type Fixtures struct {
	Path string
}

type Sessions struct {
	Dir string
}

type Snapshots struct {
	Dir           string
	Threshold     float64
	MaxDiffPixels int
	Update        bool
}

type Logger struct {
	Env   string
	Level string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Enabled сообщает, настроена ли запись истории прогонов в БД.
func (d Database) Enabled() bool {
	return d.Host != ""
}

type Migrations struct {
	Path string
}

type Server struct {
	Host string
	Port string
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	artifactDir := env("TEST_ARTIFACT_DIR", "test-artifacts")

	cfg := &Cfg{
		Browser: Browser{
			Name:            strings.ToLower(env("BROWSER", "chromium")),
			Headless:        !envFalse("HEADLESS"),
			SlowMo:          envFloat("SLOW_MO", 0),
			BaseURL:         strings.TrimRight(os.Getenv("BASE_URL"), "/"),
			MobileDevice:    os.Getenv("MOBILE_DEVICE"),
			ViewportWidth:   envInt("VIEWPORT_WIDTH", 1280),
			ViewportHeight:  envInt("VIEWPORT_HEIGHT", 720),
			Timeout:         envDuration("STEP_TIMEOUT", 10*time.Second),
			NavigateTimeout: envDuration("NAVIGATE_TIMEOUT", 30*time.Second),
			BrowsersPath:    env("PLAYWRIGHT_BROWSERS_PATH", ""),
		},
		Artifacts: Artifacts{
			Dir:         artifactDir,
			Screenshots: env("ENABLE_SCREENSHOTS", "failure"),
			Videos:      env("ENABLE_VIDEOS", "off"),
			Trace:       env("ENABLE_TRACE", "off"),
		},
		Fixtures: Fixtures{
			Path: env("FIXTURES_PATH", "fixtures"),
		},
		Sessions: Sessions{
			Dir: env("SESSION_DIR", filepath.Join(artifactDir, "sessions")),
		},
		Snapshots: Snapshots{
			Dir:           env("SNAPSHOT_DIR", "snapshots"),
			Threshold:     envFloat("SNAPSHOT_THRESHOLD", 0.1),
			MaxDiffPixels: envInt("SNAPSHOT_MAX_DIFF_PIXELS", 0),
			Update:        envBool("UPDATE_SNAPSHOTS"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
		Server: Server{
			Host: env("REPORT_HOST", "127.0.0.1"),
			Port: env("REPORT_PORT", "8090"),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// envDuration принимает как "15s", так и число миллисекунд.
func envDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envFalse(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "false" || v == "0" || v == "no"
}
