// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports and TLS, logging level and format, CORS settings, and request
// body size limits. AppConfig is where everything specific to this
// application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key authentication for the admin API.
	// When set, enables Bearer token authentication for /api/admin/* routes.
	// Leave empty to reject all admin requests.
	APIKey string

	// Media host configuration (image uploads for post content)
	MediaCloud       string // cloud/account name on the media host
	MediaAPIKey      string // media host API key
	MediaAPISecret   string // media host API secret (request signing)
	MediaUploadURL   string // upload endpoint base URL
	MediaDeliveryURL string // delivery (CDN) base URL
	MediaFolder      string // folder for uploaded post images (default: blog)

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// ContactNotifyEmail receives a notification for every contact form
	// submission. Leave empty to disable notifications.
	ContactNotifyEmail string

	// Admin seeding configuration
	SeedAdminEmail    string // Email of the admin record to create on startup (if set)
	SeedAdminPassword string // Password for the seeded admin (stored bcrypt-hashed)
	SeedAdminName     string // Display name of the seeded admin

	// Base URL of the public site (canonical links, email footers)
	BaseURL string
}
