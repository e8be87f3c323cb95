package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectMongo connects and pings, retrying with exponential backoff so the
// service survives the database coming up after it in a compose stack.
func ConnectMongo(uri, dbName string, logger *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var client *mongo.Client
	operation := func() error {
		var err error
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return err
		}
		return nil
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		logger.Warnf("MongoDB connect failed, retrying in %s: %v", next, err)
	}); err != nil {
		logger.Errorf("MongoDB connection failed: %v", err)
		return nil, nil, err
	}

	logger.Info("MongoDB connected successfully")
	return client.Database(dbName), client, nil
}
