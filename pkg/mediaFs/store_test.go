package mediaFs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	gets    []string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	key := aws.StringValue(in.Key)
	f.gets = append(f.gets, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	page := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.StringValue(in.Prefix)) {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(key)})
		}
	}
	page.Contents = append(page.Contents, &s3.Object{Key: aws.String(aws.StringValue(in.Prefix))})
	fn(page, true)
	return nil
}

func TestParseSource(t *testing.T) {
	Convey("Sources are classified by scheme", t, func() {
		src, err := ParseSource("videos/intro.mp4")
		So(err, ShouldBeNil)
		So(src.Kind, ShouldEqual, KindLocal)
		So(src.Path, ShouldEqual, "videos/intro.mp4")

		src, err = ParseSource("file:///srv/intro.mp4")
		So(err, ShouldBeNil)
		So(src.Kind, ShouldEqual, KindLocal)
		So(src.Path, ShouldEqual, "/srv/intro.mp4")

		src, err = ParseSource("s3://frames/collections/a.mp4")
		So(err, ShouldBeNil)
		So(src.Kind, ShouldEqual, KindS3)
		So(src.Bucket, ShouldEqual, "frames")
		So(src.Key, ShouldEqual, "collections/a.mp4")
		So(src.IsPrefix(), ShouldBeFalse)

		src, err = ParseSource("s3://frames/collections/")
		So(err, ShouldBeNil)
		So(src.IsPrefix(), ShouldBeTrue)

		src, err = ParseSource("https://example.com/clip.webm")
		So(err, ShouldBeNil)
		So(src.Kind, ShouldEqual, KindRemote)
	})

	Convey("Unknown schemes and empty input are rejected", t, func() {
		_, err := ParseSource("ftp://host/clip.mp4")
		So(errors.Is(err, ErrUnsupportedScheme), ShouldBeTrue)

		_, err = ParseSource("  ")
		So(err, ShouldNotBeNil)

		_, err = ParseSource("s3:///key.mp4")
		So(err, ShouldNotBeNil)
	})

	Convey("Video extensions are recognised case-insensitively", t, func() {
		So(IsVideo("a.MP4"), ShouldBeTrue)
		So(IsVideo("b.mpeg"), ShouldBeTrue)
		So(IsVideo("notes.txt"), ShouldBeFalse)
	})
}

func TestStore(t *testing.T) {
	Convey("Given a store over an in-memory filesystem", t, func() {
		ctx := context.Background()
		fs := afero.NewMemMapFs()
		client := &fakeS3{objects: map[string]string{
			"collections/b.mp4":  "bbbb",
			"collections/a.mp4":  "aaaa",
			"collections/readme": "skip",
			"other/c.mkv":        "cccc",
		}}
		store := NewStore(fs, "/cache").WithS3(client)

		Convey("Local files resolve to file URIs", func() {
			So(afero.WriteFile(fs, "/srv/intro.mp4", []byte("x"), 0o644), ShouldBeNil)
			uri, err := store.Resolve(ctx, "/srv/intro.mp4")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "file:///srv/intro.mp4")
		})

		Convey("Missing local files are an error", func() {
			_, err := store.Resolve(ctx, "/srv/missing.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("Remote URLs pass through untouched", func() {
			uri, err := store.Resolve(ctx, "https://example.com/clip.webm")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "https://example.com/clip.webm")
		})

		Convey("S3 objects are downloaded once into the cache", func() {
			uri, err := store.Resolve(ctx, "s3://frames/other/c.mkv")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "file:///cache/c.mkv")

			data, err := afero.ReadFile(fs, "/cache/c.mkv")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "cccc")

			_, err = store.Resolve(ctx, "s3://frames/other/c.mkv")
			So(err, ShouldBeNil)
			So(client.gets, ShouldResemble, []string{"other/c.mkv"})

			exists, _ := afero.Exists(fs, "/cache/c.mkv.part")
			So(exists, ShouldBeFalse)
		})

		Convey("A failed download leaves nothing behind", func() {
			_, err := store.Resolve(ctx, "s3://frames/other/missing.mp4")
			So(err, ShouldNotBeNil)
			exists, _ := afero.Exists(fs, "/cache/missing.mp4")
			So(exists, ShouldBeFalse)
		})

		Convey("A prefix syncs every video and resolves to the first", func() {
			uri, err := store.Resolve(ctx, "s3://frames/collections/")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "file:///cache/a.mp4")

			cached, err := store.Cached()
			So(err, ShouldBeNil)
			So(cached, ShouldResemble, []string{"/cache/a.mp4", "/cache/b.mp4"})
		})

		Convey("An empty cache directory is reported", func() {
			_, err := store.Cached()
			So(err, ShouldNotBeNil)
		})
	})
}
