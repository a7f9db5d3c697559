package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the scraper needs to know about the portal and
// the environment it runs in. Values come from environment variables (with
// .env / .env.$APP_ENV loaded first), falling back to defaults that match
// the De Vinci Moodle deployment.
type Config struct {
	Portal    PortalConfig
	Browser   BrowserConfig
	Logger    LoggerConfig
	Debug     DebugConfig
	Selectors Selectors
	Waits     WaitConfig
}

type PortalConfig struct {
	// EntryURL is where an unauthenticated visit starts; the portal
	// redirects authenticated sessions to the dashboard.
	EntryURL string
	// LandingFragment identifies the authenticated dashboard URL. If the
	// post-navigation URL contains it, no login is needed.
	LandingFragment string
	NavTimeout      time.Duration
	// LoginIdleTimeout bounds the network-quiescence wait after submitting
	// the login form. Exceeding it is not fatal; the portal UI itself is
	// the source of truth for whether login worked.
	LoginIdleTimeout time.Duration
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	// UserDataDir is the persistent profile directory. Cookies stored there
	// survive across runs and enable the already-logged-in fast path.
	// No cross-process locking: two processes sharing the directory at the
	// same time are unsupported.
	UserDataDir string
}

type LoggerConfig struct {
	Level      string
	Format     string // "console" or "json"
	LogFile    string // empty disables the file core
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

type DebugConfig struct {
	// Enabled turns on failure diagnostics: a screenshot on pipeline error
	// and a compacted container HTML dump when extraction finds nothing.
	Enabled bool
	Dir     string
}

// WaitConfig groups the bounded waits used by the extraction pipelines.
type WaitConfig struct {
	Section time.Duration // section/container visibility
	Loading time.Duration // loading-indicator disappearance
	// Settle is the fixed fallback delay used when no loading indicator is
	// observable, and after menu animations.
	Settle time.Duration
	// PostLoading pads out the indicator-gone signal; the widget repaints
	// shortly after the spinner detaches.
	PostLoading time.Duration
}

// Selectors names every piece of portal markup the scraper touches. The
// portal ships UI revisions without notice, so drift is fixed here rather
// than in extraction code.
type Selectors struct {
	LoginEmail    string
	LoginPassword string
	LoginSubmit   string

	CourseOverview string
	CoursesView    string
	// DisplayAttr is the courses-view attribute carrying the display mode.
	DisplayAttr string
	// ModeDropdown has shipped under two markup shapes; ModeDropdownAlt is
	// the fallback when the primary matches nothing.
	ModeDropdown      string
	ModeDropdownAlt   string
	ModeSummaryOption string
	CourseLoading     string
	CourseItem        string
	CourseContent     string
	CourseName        string
	CourseCategory    string
	CourseSummary     string
	CourseProgress    string

	TimelineSection  string
	TimelineList     string
	TimelineLoading  string
	TimelineItem     string
	EventName        string
	EventTime        string
	EventGroup       string
	EventDateHeading string
}

// DefaultSelectors returns the selector set for the current portal markup.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginEmail:    `input[type='email']`,
		LoginPassword: `input[type='password']`,
		LoginSubmit:   `#submitButton`,

		CourseOverview:    `section[data-block="myoverviewdevinci"]`,
		CoursesView:       `div[data-region="courses-view"]`,
		DisplayAttr:       "data-display",
		ModeDropdown:      `button#displaydropdown`,
		ModeDropdownAlt:   `div.display-style button.dropdown-toggle`,
		ModeSummaryOption: `a[data-value="summary"]`,
		CourseLoading:     `div[data-region="courses-view"] .bg-pulse-grey`,
		CourseItem:        `div.course-summaryitem`,
		CourseContent:     `.col-md-9`,
		CourseName:        `a.aalink.coursename`,
		CourseCategory:    `.categoryname`,
		CourseSummary:     `.summary`,
		CourseProgress:    `.progress-text`,

		TimelineSection:  `section[data-block="timeline"]`,
		TimelineList:     `div[data-region="event-list-container"]`,
		TimelineLoading:  `div[data-region="event-list-loading-placeholder"]`,
		TimelineItem:     `.timeline-event-list-item`,
		EventName:        `h6.event-name a`,
		EventTime:        `small.text-right`,
		EventGroup:       `.list-group`,
		EventDateHeading: `h5`,
	}
}

// Load reads .env files and assembles the full configuration.
func Load() *Config {
	env := NewEnvService()

	return &Config{
		Portal: PortalConfig{
			EntryURL:         env.GetDefault("PORTAL_ENTRY_URL", "https://learning.devinci.fr"),
			LandingFragment:  env.GetDefault("PORTAL_LANDING_FRAGMENT", "learning.devinci.fr/my/"),
			NavTimeout:       env.GetDuration("PORTAL_NAV_TIMEOUT", 30*time.Second),
			LoginIdleTimeout: env.GetDuration("PORTAL_LOGIN_IDLE_TIMEOUT", 20*time.Second),
		},
		Browser: BrowserConfig{
			Headless:    env.GetBool("BROWSER_HEADLESS", true),
			SlowMotion:  env.GetDuration("BROWSER_SLOW_MOTION", 0),
			Timeout:     env.GetDuration("BROWSER_TIMEOUT", 10*time.Second),
			NoSandbox:   env.GetBool("BROWSER_NO_SANDBOX", false),
			UserDataDir: env.GetDefault("BROWSER_USER_DATA_DIR", "browser_data"),
		},
		Logger: LoggerConfig{
			Level:      env.GetDefault("LOG_LEVEL", "info"),
			Format:     env.GetDefault("LOG_FORMAT", "console"),
			LogFile:    env.Get("LOG_FILE"),
			MaxSize:    env.GetInt("LOG_MAX_SIZE", 10),
			MaxBackups: env.GetInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     env.GetInt("LOG_MAX_AGE", 14),
			Compress:   env.GetBool("LOG_COMPRESS", false),
		},
		Debug: DebugConfig{
			Enabled: env.GetBool("DEBUG_ARTIFACTS", false),
			Dir:     env.GetDefault("DEBUG_DIR", "debug"),
		},
		Selectors: DefaultSelectors(),
		Waits: WaitConfig{
			Section:     env.GetDuration("WAIT_SECTION", 15*time.Second),
			Loading:     env.GetDuration("WAIT_LOADING", 15*time.Second),
			Settle:      env.GetDuration("WAIT_SETTLE", 500*time.Millisecond),
			PostLoading: env.GetDuration("WAIT_POST_LOADING", time.Second),
		},
	}
}

type EnvService struct{}

func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file with secrets found (this is OK for CI/CD)")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) GetDefault(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func (e *EnvService) MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
