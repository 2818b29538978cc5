package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// IsRetryable decides whether a failed operation may be attempted again.
type IsRetryable func(err error) bool

const DefaultMaxRetries = 3

// Try executes an operation, retrying transient store errors up to DefaultMaxRetries times.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsTransientError)
}

// WithRetries executes op, retrying while isRetryable accepts the error.
// It makes at most maxRetries+1 attempts with a small incremental backoff.
func WithRetries(op Operation, maxRetries int, isRetryable IsRetryable) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries || !isRetryable(err) {
			break
		}
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
	}
	return err
}

// InsertOne inserts a document whose _id the caller already set, retrying
// transient errors. A retry can hit a duplicate key when an earlier attempt
// committed but its reply was lost; if a document with id exists at that
// point the insert counts as done.
func InsertOne(ctx context.Context, coll *mongo.Collection, id any, doc any) error {
	err := Try(func() error {
		_, insertErr := coll.InsertOne(ctx, doc)
		return insertErr
	})
	if err == nil || !IsMongoDuplicateKeyError(err) {
		return err
	}
	n, countErr := coll.CountDocuments(ctx, bson.M{"_id": id})
	if countErr == nil && n > 0 {
		return nil
	}
	return err
}

// IsTransientError reports network failures, timeouts and errors the server
// labelled as retryable.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("RetryableWriteError") || se.HasErrorLabel("TransientTransactionError")
	}
	return false
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsMongoDuplicateKeyError(err error) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, writeError := range bwe.WriteErrors {
			if writeError.Code == 11000 {
				return true
			}
		}
	}
	return false
}
