// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	SurveyHubMongoClient   *mongo.Client
	SurveyHubMongoDatabase *mongo.Database
}
