// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "PEAKFORM"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_key, etc.
//   - Environment variables: PEAKFORM_MONGO_URI, PEAKFORM_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "peakform", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// API key configuration (admin API Bearer token auth)
	{Name: "api_key", Default: "", Desc: "API key for the admin API (leave empty to reject all admin requests)"},

	// Media host configuration
	{Name: "media_cloud", Default: "", Desc: "Media host cloud/account name"},
	{Name: "media_api_key", Default: "", Desc: "Media host API key"},
	{Name: "media_api_secret", Default: "", Desc: "Media host API secret"},
	{Name: "media_upload_url", Default: "https://api.cloudinary.com/v1_1", Desc: "Media host upload endpoint base URL"},
	{Name: "media_delivery_url", Default: "https://res.cloudinary.com", Desc: "Media host delivery (CDN) base URL"},
	{Name: "media_folder", Default: "blog", Desc: "Media host folder for post images"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "PeakForm", Desc: "From display name"},

	// Contact form notification
	{Name: "contact_notify_email", Default: "", Desc: "Address notified on contact form submissions (empty disables)"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin record to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Password for the seeded admin (stored bcrypt-hashed)"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Display name of the seeded admin"},

	// Base URL for canonical links
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL of the site"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PEAKFORM_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIKey: appValues.String("api_key"),

		// Media host
		MediaCloud:       appValues.String("media_cloud"),
		MediaAPIKey:      appValues.String("media_api_key"),
		MediaAPISecret:   appValues.String("media_api_secret"),
		MediaUploadURL:   appValues.String("media_upload_url"),
		MediaDeliveryURL: appValues.String("media_delivery_url"),
		MediaFolder:      appValues.String("media_folder"),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		ContactNotifyEmail: appValues.String("contact_notify_email"),

		// Admin seeding
		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedAdminName:     appValues.String("seed_admin_name"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.SeedAdminEmail != "" && appCfg.SeedAdminPassword == "" {
		return fmt.Errorf("seed_admin_email is set but seed_admin_password is empty")
	}

	if appCfg.MediaCloud == "" {
		logger.Warn("media host not configured; image uploads will be rejected")
	}

	return nil
}
