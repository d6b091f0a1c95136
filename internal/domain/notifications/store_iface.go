package notifications

import "context"

type StoreAPI interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}
