package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Dnicola11/repuestos/internal/backend"
)

// Mongo server error codes the adapter distinguishes.
const (
	codeUnauthorized = 13
)

// translate wraps a driver error into the closed backend error set so the
// core never inspects mongo error shapes directly.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return backend.Wrap(backend.KindTimeout, fmt.Sprintf("%s: deadline exceeded", op), err)
	case errors.Is(err, context.Canceled):
		return backend.Wrap(backend.KindCanceled, fmt.Sprintf("%s: canceled", op), err)
	case errors.Is(err, mongo.ErrNoDocuments):
		return backend.Wrap(backend.KindNotFound, fmt.Sprintf("%s: document not found", op), err)
	case mongo.IsDuplicateKeyError(err):
		return backend.Wrap(backend.KindEmailInUse, fmt.Sprintf("%s: duplicate key", op), err)
	case mongo.IsTimeout(err):
		return backend.Wrap(backend.KindTimeout, fmt.Sprintf("%s: server timeout", op), err)
	case mongo.IsNetworkError(err):
		return backend.Wrap(backend.KindUnavailable, fmt.Sprintf("%s: network error", op), err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeUnauthorized {
		return backend.Wrap(backend.KindPermissionDenied, fmt.Sprintf("%s: unauthorized", op), err)
	}

	return backend.Wrap(backend.KindUnknown, fmt.Sprintf("%s failed", op), err)
}
