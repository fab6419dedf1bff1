package api

import (
	"context"
	"errors"
)

type keyType string

const adminIDKey keyType = "adminID"

// ctxWithAdminID adds the authenticated admin's subject to the context
func ctxWithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, adminIDKey, adminID)
}

// ctxGetAdminID retrieves the authenticated admin's subject from the context
func ctxGetAdminID(ctx context.Context) (string, error) {
	return ctxGetStringValue(ctx, adminIDKey)
}

func ctxGetStringValue(ctx context.Context, key keyType) (string, error) {
	if ctxValue := ctx.Value(key); ctxValue == nil {
		return "", errors.New("key not found in context")
	} else if valueAsString, ok := ctxValue.(string); !ok {
		return "", errors.New("value is not of type `string`")
	} else {
		return valueAsString, nil
	}
}
