// Package txn runs multi-document writes inside a MongoDB transaction when
// the deployment supports one.
//
// Standalone mongod (typical in development and CI) rejects transactions.
// Run detects that and executes the callback without a transaction. The
// writes are then sequential rather than atomic.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes that mean "transactions are unavailable here".
const (
	codeIllegalOperation        = 20
	codeNoReplicationEnabled    = 51 // reported by some proxies in place of 20
	codeOperationNotSupportedTx = 263
)

// Run executes fn inside a transaction on db's client. fn must use the
// context it is given so its operations join the session.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("sessions not supported; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("transactions not supported; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server cannot run sessions
// or transactions (standalone server, unsupported engine).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeNoReplicationEnabled, codeOperationNotSupportedTx:
			return true
		}
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "illegal operation") {
		return true
	}
	hasTxn := strings.Contains(s, "transaction")
	hasSession := strings.Contains(s, "session")
	if hasTxn && (hasSession || strings.Contains(s, "replica set")) {
		return true
	}
	return (hasTxn || hasSession) && strings.Contains(s, "not supported")
}
