// Package mediaFs turns user supplied sources into URIs GStreamer can open,
// downloading S3 objects into a local cache first.
package mediaFs

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrUnsupportedScheme is returned for sources that are neither local paths
// nor s3, http(s) or file URIs.
var ErrUnsupportedScheme = errors.New("unsupported source scheme")

// Kind classifies a Source.
type Kind int

const (
	KindLocal Kind = iota
	KindS3
	KindRemote
)

// Source is a parsed media location.
type Source struct {
	Kind   Kind
	Raw    string
	Path   string
	Bucket string
	Key    string
}

// IsPrefix reports whether an S3 source names a folder rather than an object.
func (s Source) IsPrefix() bool {
	return s.Kind == KindS3 && (s.Key == "" || strings.HasSuffix(s.Key, "/"))
}

// ParseSource classifies raw as a local path, an s3://bucket/key object or an
// http(s) URL.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, errors.New("empty source")
	}

	if !strings.Contains(raw, "://") {
		return Source{Kind: KindLocal, Raw: raw, Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("invalid source %q: %w", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return Source{Kind: KindLocal, Raw: raw, Path: u.Path}, nil
	case "s3":
		if u.Host == "" {
			return Source{}, fmt.Errorf("s3 source %q has no bucket", raw)
		}
		return Source{Kind: KindS3, Raw: raw, Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
	case "http", "https", "rtsp":
		return Source{Kind: KindRemote, Raw: raw}, nil
	default:
		return Source{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mpg":  true,
	".mpeg": true,
	".ts":   true,
}

// IsVideo reports whether name carries a known video container extension.
func IsVideo(name string) bool {
	return videoExtensions[strings.ToLower(path.Ext(name))]
}
