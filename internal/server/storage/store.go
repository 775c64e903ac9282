// Package storage moves binary image data to S3-compatible object storage.
// Uploads happen before any database write in the diary-creation flow, so
// the store also supports removal for compensation when a later step fails.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore accepts a binary blob and a logical path prefix and returns
// the storage key plus a public URL.
type ObjectStore interface {
	Put(ctx context.Context, data []byte, prefix string) (key string, url string, err error)
	Remove(ctx context.Context, key string) error
	// KeyFromURL maps a public URL previously returned by Put back to its
	// storage key. The second result is false when the URL does not belong
	// to this store.
	KeyFromURL(url string) (string, bool)
}

// objectKey builds a collision-free key under the given prefix:
// <prefix>/<timestamp>_<uuid8>.jpg. All stored images are JPEG after
// normalization.
func objectKey(prefix string, now time.Time) string {
	id := uuid.New().String()[:8]
	return fmt.Sprintf("%s/%s_%s.jpg", strings.Trim(prefix, "/"), now.Format("20060102_150405"), id)
}

// publicURL joins the public base URL and the object key.
func publicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}
