package archive

import (
	"context"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Service stores raw webhook deliveries
type Service interface {
	// Put writes body as a new object and returns the object name
	Put(ctx context.Context, body []byte) (string, error)
	Close() error
}

// openWriter returns a writer for a new object in the bucket
type openWriter func(ctx context.Context, bucket, object string) io.WriteCloser

type client struct {
	gcs    *storage.Client
	bucket string
	prefix string
	open   openWriter
	now    func() time.Time
}

// Option is a functional option for the archive client
type Option func(*client)

// WithPrefix sets the object name prefix
func WithPrefix(prefix string) Option {
	return func(c *client) {
		c.prefix = prefix
	}
}

// New creates an archive writing into a Cloud Storage bucket
func New(ctx context.Context, bucket string, opts ...Option) (Service, error) {
	if bucket == "" {
		return nil, goerr.New("archive bucket is required")
	}

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	c := newClient(bucket, func(ctx context.Context, bucket, object string) io.WriteCloser {
		w := gcs.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "application/json"
		return w
	}, opts...)
	c.gcs = gcs
	return c, nil
}

func newClient(bucket string, open openWriter, opts ...Option) *client {
	c := &client{
		bucket: bucket,
		open:   open,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// objectName builds <prefix>/YYYY/MM/DD/<uuid>.json in UTC
func (c *client) objectName() string {
	day := c.now().UTC().Format("2006/01/02")
	return path.Join(c.prefix, day, uuid.NewString()+".json")
}

func (c *client) Put(ctx context.Context, body []byte) (string, error) {
	name := c.objectName()

	w := c.open(ctx, c.bucket, name)
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write archive object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	// Cloud Storage commits the object on Close
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to commit archive object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}

	return name, nil
}

func (c *client) Close() error {
	if c.gcs == nil {
		return nil
	}
	if err := c.gcs.Close(); err != nil {
		return goerr.Wrap(err, "failed to close Cloud Storage client")
	}
	return nil
}
