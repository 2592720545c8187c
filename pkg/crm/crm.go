package crm

import (
	"context"
	"time"
)

// Session is an authenticated CRM session obtained with service credentials.
type Session struct {
	ID          string `json:"id"`
	InstanceURL string `json:"instanceUrl"`
}

// SessionStore keeps a CRM session between requests so every call does not
// need a fresh login. Get reports found=false when nothing usable is stored.
type SessionStore interface {
	Get(ctx context.Context, key string) (sess Session, found bool, err error)
	Set(ctx context.Context, key string, sess Session, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
