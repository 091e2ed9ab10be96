package input

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKeymap(t *testing.T) {
	Convey("Given the default keymap", t, func() {
		keys := make([]uint8, sdl.NUM_SCANCODES)
		km := NewKeymap(DefaultBindings)

		Convey("Nothing fires without input", func() {
			So(km.Poll(keys), ShouldBeEmpty)
		})

		Convey("A held key fires once", func() {
			keys[sdl.SCANCODE_SPACE] = 1
			So(km.Poll(keys), ShouldResemble, []Action{ActionTogglePause})
			So(km.Poll(keys), ShouldBeEmpty)

			keys[sdl.SCANCODE_SPACE] = 0
			So(km.Poll(keys), ShouldBeEmpty)

			keys[sdl.SCANCODE_SPACE] = 1
			So(km.Poll(keys), ShouldResemble, []Action{ActionTogglePause})
		})

		Convey("Simultaneous presses come back in binding order", func() {
			keys[sdl.SCANCODE_ESCAPE] = 1
			keys[sdl.SCANCODE_F] = 1
			So(km.Poll(keys), ShouldResemble, []Action{ActionCycleFit, ActionQuit})
		})
	})

	Convey("A short key state never panics", t, func() {
		km := NewKeymap(DefaultBindings)
		So(func() { km.Poll(nil) }, ShouldNotPanic)
	})

	Convey("Actions have readable names", t, func() {
		So(ActionCycleFit.String(), ShouldEqual, "cycle-fit")
		So(ActionNone.String(), ShouldEqual, "none")
	})
}

func TestClicks(t *testing.T) {
	Convey("A held button fires once", t, func() {
		clicks := NewClicks()
		left := sdl.ButtonLMask()
		So(clicks.Pressed(left, left), ShouldBeTrue)
		So(clicks.Pressed(left, left), ShouldBeFalse)
		So(clicks.Pressed(0, left), ShouldBeFalse)
		So(clicks.Pressed(left, left), ShouldBeTrue)
	})

	Convey("Buttons are tracked separately", t, func() {
		clicks := NewClicks()
		left, right := sdl.ButtonLMask(), sdl.ButtonRMask()
		So(clicks.Pressed(left|right, left), ShouldBeTrue)
		So(clicks.Pressed(left|right, right), ShouldBeTrue)
		So(clicks.Pressed(left|right, left), ShouldBeFalse)
	})
}
