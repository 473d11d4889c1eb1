package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	SchoolName string

	DataDir   string
	TableFile string
	PhotoDir  string
	SheetDir  string

	// MonthlyCalendar switches the monthly window from a fixed 30-day
	// lookback to a calendar-month offset. Per-deployment policy.
	MonthlyCalendar bool

	// RequireSheet makes the attendance-sheet attachment mandatory on
	// submission. Per-deployment policy.
	RequireSheet bool

	GitHub GitHubConfig
}

// GitHubConfig holds the mirror collaborator settings. The mirror is
// disabled when Token or Repo is empty.
type GitHubConfig struct {
	Token      string
	Repo       string // "owner/name", full github.com URL also accepted
	Branch     string
	RemotePath string
}

var AppConfig *Config

// Init loads environment variables (a .env file is optional) and builds the
// application configuration. Data directories are created if absent.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	dataDir := getenv("DATA_DIR", ".")

	cfg := &Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		SchoolName:      getenv("SCHOOL_NAME", "Saul Damon High School"),
		DataDir:         dataDir,
		TableFile:       filepath.Join(dataDir, getenv("TABLE_FILE", "intervensie_database.csv")),
		PhotoDir:        filepath.Join(dataDir, "fotos"),
		SheetDir:        filepath.Join(dataDir, "presensies"),
		MonthlyCalendar: os.Getenv("MONTHLY_CALENDAR") == "true",
		RequireSheet:    os.Getenv("REQUIRE_ATTENDANCE_SHEET") == "true",
		GitHub: GitHubConfig{
			Token:      os.Getenv("GITHUB_TOKEN"),
			Repo:       os.Getenv("GITHUB_REPO"),
			Branch:     getenv("GITHUB_BRANCH", "main"),
			RemotePath: getenv("GITHUB_REMOTE_PATH", "intervensie_database.csv"),
		},
	}

	for _, dir := range []string{cfg.PhotoDir, cfg.SheetDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create data directory %s: %v", dir, err)
		}
	}

	if cfg.GitHub.Token == "" || cfg.GitHub.Repo == "" {
		log.Println("GitHub sync: no token/repo configured, storing locally only")
	}

	AppConfig = cfg
}

func Get() *Config {
	return AppConfig
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
