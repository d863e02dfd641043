// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peakformhq/peakform/internal/app/system/mailer"
	"github.com/peakformhq/peakform/internal/app/system/media"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. It is the
// central place for every client the application needs; nothing is held
// in package-level state.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Media is the external image host client used by the post lifecycle.
	Media *media.Client

	// Mailer sends contact form notifications.
	Mailer *mailer.Mailer
}
