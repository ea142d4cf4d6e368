package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"internwatch/internal/secrets"
)

// SelectMode picks how the previous revision is chosen.
type SelectMode string

const (
	SelectMarker SelectMode = "marker" // persisted last-processed SHA
	SelectWindow SelectMode = "window" // fixed lookback in hours
)

const DefaultStateFile = "state/last_sha.txt"

type Config struct {
	Repo struct {
		Owner  string
		Name   string
		Branch string
		Token  string
	}

	Mail struct {
		To           string
		From         string
		SendGridKey  string
		SMTPHost     string
		SMTPPort     int
		SMTPUsername string
		SMTPPassword string
		SMTPTLS      string // starttls, implicit, none
	}

	Filters struct {
		LocationEnabled bool
		LocationsAllow  []string
		IncludeKeywords []string
		ExcludeKeywords []string
	}

	Select struct {
		Mode          SelectMode
		LookbackHours int
		StateFile     string
	}

	Heuristics Heuristics
}

// Load reads the environment (after an optional .env), normalizes list
// values, and validates. Validation runs before any network call; a
// returned error means the run must abort with no side effects.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	cfg.Repo.Owner = envDefault("REPO_OWNER", "SimplifyJobs")
	cfg.Repo.Name = envDefault("REPO_NAME", "Summer2026-Internships")
	cfg.Repo.Branch = envDefault("SOURCE_BRANCH", "dev")
	cfg.Repo.Token = os.Getenv("GITHUB_TOKEN")

	cfg.Mail.To = strings.TrimSpace(os.Getenv("EMAIL_TO"))
	cfg.Mail.From = strings.TrimSpace(os.Getenv("EMAIL_FROM"))
	cfg.Mail.SendGridKey = strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	cfg.Mail.SMTPHost = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	cfg.Mail.SMTPUsername = strings.TrimSpace(os.Getenv("SMTP_USERNAME"))
	cfg.Mail.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Mail.SMTPTLS = strings.ToLower(envDefault("SMTP_TLS", "starttls"))

	cfg.Mail.SMTPPort = 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 {
			return cfg, fmt.Errorf("invalid SMTP_PORT %q", v)
		}
		cfg.Mail.SMTPPort = p
	}

	cfg.Filters.LocationEnabled = parseToggle(envDefault("LOCATION_FILTER", "on"))
	cfg.Filters.LocationsAllow = envList("LOCATION_ALLOWLIST")
	cfg.Filters.IncludeKeywords = envList("INCLUDE_KEYWORDS")
	cfg.Filters.ExcludeKeywords = envList("EXCLUDE_KEYWORDS")

	lookback := strings.TrimSpace(os.Getenv("LOOKBACK_HOURS"))
	stateFile := strings.TrimSpace(os.Getenv("STATE_FILE"))
	if lookback != "" && stateFile != "" {
		return cfg, fmt.Errorf("LOOKBACK_HOURS and STATE_FILE are mutually exclusive")
	}
	if lookback != "" {
		h, err := strconv.Atoi(lookback)
		if err != nil || h <= 0 {
			return cfg, fmt.Errorf("invalid LOOKBACK_HOURS %q", lookback)
		}
		cfg.Select.Mode = SelectWindow
		cfg.Select.LookbackHours = h
	} else {
		cfg.Select.Mode = SelectMarker
		cfg.Select.StateFile = stateFile
		if cfg.Select.StateFile == "" {
			cfg.Select.StateFile = DefaultStateFile
		}
	}

	h, err := LoadHeuristics(os.Getenv("HEURISTICS_FILE"))
	if err != nil {
		return cfg, err
	}
	cfg.Heuristics = h

	cfg = fillMailSecrets(cfg)

	cfg, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(v.Errors, "; "))
	}
	return cfg, nil
}

// UseSMTP reports whether the SMTP transport was selected over the
// SendGrid API.
func (c Config) UseSMTP() bool { return c.Mail.SMTPHost != "" }

// fillMailSecrets consults the OS keyring for credentials the
// environment did not supply.
func fillMailSecrets(cfg Config) Config {
	if cfg.UseSMTP() {
		if cfg.Mail.SMTPPassword == "" {
			if pw, err := secrets.SMTPPassword(cfg.Mail.SMTPUsername, cfg.Mail.SMTPHost); err == nil {
				cfg.Mail.SMTPPassword = pw
			}
		}
		return cfg
	}
	if cfg.Mail.SendGridKey == "" {
		if key, err := secrets.SendGridKey(cfg.Mail.From); err == nil {
			cfg.Mail.SendGridKey = key
		}
	}
	return cfg
}

func envDefault(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

// envList splits a comma-separated variable. An unset or all-empty value
// yields nil, which callers treat as "not configured".
func envList(name string) []string {
	val := os.Getenv(name)
	if val == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(val, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseToggle(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "off", "false", "0", "no":
		return false
	}
	return true
}
