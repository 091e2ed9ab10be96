package settings

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"

	"frame-bridge/pkg/layout"
)

func TestSettings(t *testing.T) {
	Convey("Given an empty filesystem", t, func() {
		fs := afero.NewMemMapFs()

		Convey("Load returns the defaults", func() {
			s := Load(fs, "settings.toml")
			So(s, ShouldResemble, Defaults())
			So(s.ContentFit(), ShouldEqual, layout.FitContain)
		})

		Convey("Saved settings load back", func() {
			want := Settings{Loop: true, Fit: "scale-down", MouseHidden: true, LastSource: "s3://frames/a.mp4"}
			So(Save(fs, "settings.toml", want), ShouldBeNil)

			got := Load(fs, "settings.toml")
			So(got, ShouldResemble, want)
			So(got.ContentFit(), ShouldEqual, layout.FitScaleDown)
		})

		Convey("A malformed file falls back to the defaults", func() {
			So(afero.WriteFile(fs, "settings.toml", []byte("loop = ["), 0o644), ShouldBeNil)
			So(Load(fs, "settings.toml"), ShouldResemble, Defaults())
		})

		Convey("Missing fields keep their defaults", func() {
			So(afero.WriteFile(fs, "settings.toml", []byte("loop = true\n"), 0o644), ShouldBeNil)
			s := Load(fs, "settings.toml")
			So(s.Loop, ShouldBeTrue)
			So(s.Fit, ShouldEqual, "contain")
		})

		Convey("An unknown fit is replaced", func() {
			So(afero.WriteFile(fs, "settings.toml", []byte("fit = \"stretch\"\n"), 0o644), ShouldBeNil)
			So(Load(fs, "settings.toml").Fit, ShouldEqual, "contain")
		})
	})
}
