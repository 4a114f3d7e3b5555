// Package source fetches the questionnaire inputs (question list and weight
// matrix) from the local filesystem or blob storage.
package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Fetcher reads one object by key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Location is a parsed input URI.
type Location struct {
	Scheme string // "file", "s3" or "gs"
	Bucket string // empty for local files
	Key    string // object key, or filesystem path
}

func (l Location) String() string {
	if l.Scheme == "file" {
		return l.Key
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// ParseLocation splits uri into backend, bucket and key. Anything without an
// s3:// or gs:// prefix is treated as a local path.
func ParseLocation(uri string) (Location, error) {
	if uri == "" {
		return Location{}, goerr.New("input location is empty")
	}
	if !strings.HasPrefix(uri, "s3://") && !strings.HasPrefix(uri, "gs://") {
		return Location{Scheme: "file", Key: strings.TrimPrefix(uri, "file://")}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, goerr.Wrap(err, "invalid input location", goerr.V("uri", uri))
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, goerr.New("input location needs a bucket and a key", goerr.V("uri", uri))
	}
	return Location{Scheme: u.Scheme, Bucket: u.Host, Key: key}, nil
}

// Options configures the remote backends.
type Options struct {
	S3 S3Config
}

// Read fetches the object at uri with the backend its scheme selects.
func Read(ctx context.Context, uri string, opts Options) ([]byte, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}

	var f Fetcher
	switch loc.Scheme {
	case "s3":
		cfg := opts.S3
		cfg.Bucket = loc.Bucket
		f, err = NewS3Fetcher(ctx, cfg)
	case "gs":
		f, err = NewGCSFetcher(ctx, loc.Bucket)
	default:
		f = NewLocalFetcher("")
	}
	if err != nil {
		return nil, err
	}
	if c, ok := f.(io.Closer); ok {
		defer c.Close()
	}

	return f.Fetch(ctx, loc.Key)
}

// LocalFetcher reads files, optionally relative to BaseDir.
type LocalFetcher struct {
	BaseDir string
}

// NewLocalFetcher creates a LocalFetcher rooted at baseDir.
func NewLocalFetcher(baseDir string) *LocalFetcher {
	return &LocalFetcher{BaseDir: baseDir}
}

// Fetch reads the file at key.
func (f *LocalFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	path := key
	if f.BaseDir != "" && !filepath.IsAbs(key) {
		path = filepath.Join(f.BaseDir, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
	}
	return data, nil
}
