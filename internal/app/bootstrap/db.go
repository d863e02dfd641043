// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/peakformhq/peakform/internal/app/system/indexes"
	"github.com/peakformhq/peakform/internal/app/system/mailer"
	"github.com/peakformhq/peakform/internal/app/system/media"
)

// ConnectDB connects to MongoDB and builds the external service clients.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema
// and Startup. Clients land in DBDeps for use by later hooks and handlers.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	// Configure MongoDB connection pool
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	// Media host client. An unconfigured client degrades gracefully:
	// uploads fail with a typed error and deletes report false.
	mediaClient := media.New(media.Config{
		Cloud:       appCfg.MediaCloud,
		APIKey:      appCfg.MediaAPIKey,
		APISecret:   appCfg.MediaAPISecret,
		UploadURL:   appCfg.MediaUploadURL,
		DeliveryURL: appCfg.MediaDeliveryURL,
		Folder:      appCfg.MediaFolder,
	}, logger)
	if mediaClient.Configured() {
		logger.Info("initialized media host client",
			zap.String("cloud", appCfg.MediaCloud),
			zap.String("folder", mediaClient.Folder()),
		)
	}

	// Email mailer for contact notifications
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	logger.Info("initialized email mailer",
		zap.String("host", appCfg.MailSMTPHost),
		zap.Int("port", appCfg.MailSMTPPort),
	)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Media:         mediaClient,
		Mailer:        mail,
	}, nil
}

// EnsureSchema sets up indexes before the HTTP handler is built.
//
// The context has a timeout based on coreCfg.IndexBootTimeout, so
// long-running work should respect context cancellation.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
