package mediaFs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"frame-bridge/pkg/log"
)

// ErrNoCredentials is returned when S3 is needed but the environment lacks credentials.
var ErrNoCredentials = errors.New("missing one or more required environment variables: AWS_DEFAULT_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY")

// NewS3ClientFromEnv builds a client from the standard AWS environment variables.
func NewS3ClientFromEnv() (s3iface.S3API, error) {
	region := os.Getenv("AWS_DEFAULT_REGION")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if region == "" || accessKey == "" || secretKey == "" {
		return nil, ErrNoCredentials
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, os.Getenv("AWS_SESSION_TOKEN")),
	})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// Store resolves sources against a local cache directory.
type Store struct {
	fs  afero.Fs
	dir string
	s3  s3iface.S3API
	log *logrus.Entry
}

// NewStore creates a store caching downloads under dir.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir, log: log.For("mediaFs")}
}

// WithS3 sets the client used for s3:// sources. Without one, the client is
// built from the environment on first use.
func (s *Store) WithS3(client s3iface.S3API) *Store {
	s.s3 = client
	return s
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Resolve returns a URI GStreamer can open for raw. S3 objects are
// downloaded into the cache unless already present.
func (s *Store) Resolve(ctx context.Context, raw string) (string, error) {
	src, err := ParseSource(raw)
	if err != nil {
		return "", err
	}

	switch src.Kind {
	case KindRemote:
		return src.Raw, nil

	case KindLocal:
		return s.localURI(src.Path)

	case KindS3:
		if src.IsPrefix() {
			paths, err := s.Sync(ctx, src.Bucket, src.Key)
			if err != nil {
				return "", err
			}
			if len(paths) == 0 {
				return "", fmt.Errorf("no videos under %s", src.Raw)
			}
			return s.localURI(paths[0])
		}
		local, err := s.download(ctx, src.Bucket, src.Key)
		if err != nil {
			return "", err
		}
		return s.localURI(local)
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, raw)
}

func (s *Store) localURI(p string) (string, error) {
	if _, err := s.fs.Stat(p); err != nil {
		return "", fmt.Errorf("cannot open %s: %w", p, err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

func (s *Store) client() (s3iface.S3API, error) {
	if s.s3 == nil {
		c, err := NewS3ClientFromEnv()
		if err != nil {
			return nil, err
		}
		s.s3 = c
	}
	return s.s3, nil
}

// Sync downloads every video under prefix and returns their local paths in
// key order. Objects that fail to download are logged and skipped.
func (s *Store) Sync(ctx context.Context, bucket, prefix string) ([]string, error) {
	s.log.Infof("Sync called | bucket=%s | prefix=%s", bucket, prefix)

	client, err := s.client()
	if err != nil {
		return nil, err
	}

	var keys []string
	err = client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") || !IsVideo(*obj.Key) {
				continue
			}
			keys = append(keys, *obj.Key)
		}
		return !lastPage
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
	}
	sort.Strings(keys)

	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		local, err := s.download(ctx, bucket, key)
		if err != nil {
			s.log.Warnf("failed to download %s: %v", key, err)
			continue
		}
		paths = append(paths, local)
	}

	s.log.Infof("Sync completed | found=%d | downloaded=%d", len(keys), len(paths))
	return paths, nil
}

// download fetches one object into the cache. A non-empty cached copy is reused.
func (s *Store) download(ctx context.Context, bucket, key string) (string, error) {
	localPath := filepath.Join(s.dir, filepath.Base(key))
	if info, err := s.fs.Stat(localPath); err == nil && info.Size() > 0 {
		s.log.Debugf("cache hit for %s", key)
		return localPath, nil
	}

	client, err := s.client()
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(s.dir, os.ModePerm); err != nil {
		return "", err
	}

	result, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	partial := localPath + ".part"
	out, err := s.fs.Create(partial)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, result.Body); err != nil {
		out.Close()
		s.fs.Remove(partial)
		return "", fmt.Errorf("write %s: %w", localPath, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if err := s.fs.Rename(partial, localPath); err != nil {
		return "", err
	}

	s.log.Infof("downloaded s3://%s/%s to %s", bucket, key, localPath)
	return localPath, nil
}

// Cached lists the videos already present in the cache directory.
func (s *Store) Cached() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}

	var videos []string
	for _, entry := range entries {
		if !entry.IsDir() && IsVideo(entry.Name()) {
			videos = append(videos, filepath.Join(s.dir, entry.Name()))
		}
	}

	s.log.Debugf("Cached completed | found=%d video(s)", len(videos))
	return videos, nil
}
