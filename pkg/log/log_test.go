package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSetup(t *testing.T) {
	Convey("Given a buffer as log output", t, func() {
		var buf bytes.Buffer

		Convey("JSON output carries the component field", func() {
			SetupOutput(&buf, "debug", true)
			For("bus").Info("drained")

			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
			So(line["component"], ShouldEqual, "bus")
			So(line["msg"], ShouldEqual, "drained")
		})

		Convey("Unknown levels fall back to info", func() {
			SetupOutput(&buf, "loud", false)
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
		})

		Convey("Entries below the level are dropped", func() {
			SetupOutput(&buf, "warn", false)
			For("widget").Info("hidden")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}
