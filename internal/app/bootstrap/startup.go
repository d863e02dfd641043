// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/peakformhq/peakform/internal/app/system/normalize"
	"github.com/peakformhq/peakform/internal/domain/models"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting. The context will be cancelled if the process is asked to shut
// down while Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Seed admin account if configured
	if appCfg.SeedAdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg, logger); err != nil {
			logger.Error("failed to seed admin account", zap.Error(err))
			return err
		}
	}

	return nil
}

// ensureAdmin ensures an admin account exists with the configured email.
// The password is stored only as a bcrypt hash; if the account already
// exists it is left untouched.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	coll := deps.MongoDatabase.Collection("admins")

	email := normalize.Email(appCfg.SeedAdminEmail)
	name := normalize.Name(appCfg.SeedAdminName)
	if name == "" {
		name = "Admin"
	}

	var existing models.Admin
	err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		logger.Debug("admin account already configured", zap.String("email", email))
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := coll.InsertOne(ctx, admin); err != nil {
		return err
	}

	logger.Info("created admin account",
		zap.String("email", email),
		zap.String("admin_id", admin.ID.Hex()))
	return nil
}
