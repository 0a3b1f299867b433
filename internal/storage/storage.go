// Package storage resolves input and output locations: local paths, "-" for
// the standard streams, s3://bucket/key objects and http(s) URLs (input only).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const (
	s3Scheme = "s3://"
	stdio    = "-"
)

var (
	ErrInvalidS3Path = errors.New("invalid s3 path")
	ErrReadOnly      = errors.New("location is read-only")
)

type Downloader interface {
	DownloadWithContext(aws.Context, io.WriterAt, *s3.GetObjectInput, ...func(*s3manager.Downloader)) (int64, error)
}

type Uploader interface {
	UploadWithContext(aws.Context, *s3manager.UploadInput, ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Getter fetches remote inputs over HTTP.
type Getter interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

type Store struct {
	http   Getter
	stdin  io.Reader
	stdout io.Writer

	s3once     sync.Once
	s3err      error
	downloader Downloader
	uploader   Uploader
}

type Option func(*Store)

// WithS3 injects the S3 transfer managers instead of building them from the
// default AWS session.
func WithS3(d Downloader, u Uploader) Option {
	return func(s *Store) {
		s.downloader = d
		s.uploader = u
		s.s3once.Do(func() {})
	}
}

// WithStdio replaces the streams used for the "-" path.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(s *Store) {
		s.stdin = in
		s.stdout = out
	}
}

// NewStore builds a Store. Unless WithS3 is given, S3 credentials come from
// the default AWS environment the first time an s3:// path is used.
func NewStore(client Getter, opts ...Option) *Store {
	s := &Store{
		http:   client,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) initS3() error {
	s.s3once.Do(func() {
		sess, err := session.NewSession()
		if err != nil {
			s.s3err = fmt.Errorf("failed to create aws session: %w", err)
			return
		}
		s.downloader = s3manager.NewDownloader(sess)
		s.uploader = s3manager.NewUploader(sess)
	})
	return s.s3err
}

// Open returns a reader for p. The caller must close it.
func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	switch {
	case p == stdio:
		return io.NopCloser(s.stdin), nil
	case strings.HasPrefix(p, s3Scheme):
		return s.download(ctx, p)
	case isHTTP(p):
		if s.http == nil {
			return nil, fmt.Errorf("no http client configured for %s", p)
		}
		return s.http.Get(ctx, p)
	default:
		return os.Open(p)
	}
}

// Create returns a writer for p. For s3:// paths the object is uploaded when
// the writer is closed, so Close errors must be checked.
func (s *Store) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	switch {
	case p == stdio:
		return nopWriteCloser{s.stdout}, nil
	case strings.HasPrefix(p, s3Scheme):
		bucket, key, err := ParseS3Path(p)
		if err != nil {
			return nil, err
		}
		if err := s.initS3(); err != nil {
			return nil, err
		}
		f, err := os.CreateTemp("", "upload-*-"+path.Base(key))
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		return &s3Writer{ctx: ctx, file: f, bucket: bucket, key: key, uploader: s.uploader}, nil
	case isHTTP(p):
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, p)
	default:
		return os.Create(p)
	}
}

func (s *Store) download(ctx context.Context, p string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3Path(p)
	if err != nil {
		return nil, err
	}
	if err := s.initS3(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "download-*-"+path.Base(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	n, err := s.downloader.DownloadWithContext(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("failed to download file from S3: %w", err)
	}
	slog.Debug("file downloaded", "bucket", bucket, "key", key, "bytes", n)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	return &tempFile{File: f}, nil
}

func isHTTP(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// ParseS3Path splits s3://bucket/key into its parts.
func ParseS3Path(p string) (bucket, key string, err error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(p, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidS3Path, p)
	}
	return bucket, key, nil
}

// tempFile removes itself on Close.
type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	if rmErr := os.Remove(t.Name()); err == nil {
		err = rmErr
	}
	return err
}

type s3Writer struct {
	ctx      context.Context
	file     *os.File
	bucket   string
	key      string
	uploader Uploader
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *s3Writer) Close() error {
	defer func() { _ = os.Remove(w.file.Name()) }()
	defer func() { _ = w.file.Close() }()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := w.uploader.UploadWithContext(w.ctx, &s3manager.UploadInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   w.file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	slog.Debug("file uploaded", "bucket", w.bucket, "key", w.key)
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
