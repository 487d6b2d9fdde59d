package archive

import (
	"context"
	"io"
	"time"
)

// NewWithWriter creates an archive that writes through open instead of Cloud Storage
func NewWithWriter(bucket string, open func(ctx context.Context, bucket, object string) io.WriteCloser, now func() time.Time, opts ...Option) Service {
	c := newClient(bucket, open, opts...)
	c.now = now
	return c
}
