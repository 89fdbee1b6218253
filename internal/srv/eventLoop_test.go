package srv

import (
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/mkarren/bigtime/apimodel"
	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/mkarren/bigtime/internal/srv/watchface"
)

func newTestApp(t *testing.T) *ServerApp {
	t.Helper()
	settings := config.NewSettings(filepath.Join(t.TempDir(), "settings.dat"))
	serverConfig := &config.ServerConfig{
		ServerParam: &config.ServerParam{Clock24h: true},
		Settings:    settings,
	}
	return &ServerApp{
		ServerConfig: serverConfig,
		face:         watchface.NewFace(settings, true),
		currentMode:  CLOCK_MODE,
	}
}

func TestApplySyncUpdateBoolRedelivery(t *testing.T) {
	c := qt.New(t)
	app := newTestApp(t)

	redraw, err := app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.ZeroPrefixKey,
		Value: apimodel.BoolValue(true),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(redraw, qt.IsTrue)
	c.Assert(app.Settings.ZeroPrefix(), qt.IsTrue)

	// The same value again changes nothing and must not redraw
	redraw, err = app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.ZeroPrefixKey,
		Value: apimodel.BoolValue(true),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(redraw, qt.IsFalse)
}

func TestApplySyncUpdateDayText(t *testing.T) {
	c := qt.New(t)
	app := newTestApp(t)

	// 2026-08-27 is a Thursday
	app.face.HandleMinuteTick(time.Date(2026, time.August, 27, 14, 5, 0, 0, time.UTC))

	// Displayed weekday: redraw once, not on re-delivery
	redraw, err := app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.ThuTextKey,
		Value: apimodel.StringValue("Jeu"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(redraw, qt.IsTrue)

	redraw, err = app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.ThuTextKey,
		Value: apimodel.StringValue("Jeu"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(redraw, qt.IsFalse)

	// Another weekday changes the stored text without a redraw
	redraw, err = app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.MonTextKey,
		Value: apimodel.StringValue("Lun"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(redraw, qt.IsFalse)
	c.Assert(app.Settings.DayText(1), qt.Equals, "Lun")
}

func TestApplySyncUpdateRejectsMalformed(t *testing.T) {
	c := qt.New(t)
	app := newTestApp(t)

	// Day text must arrive as a string
	redraw, err := app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.SunTextKey,
		Value: apimodel.UintValue(1),
	})
	c.Assert(err, qt.IsNotNil)
	c.Assert(redraw, qt.IsFalse)

	redraw, err = app.applySyncUpdate(apimodel.SyncUpdate{
		Key:   apimodel.SettingKey(0x42),
		Value: apimodel.UintValue(1),
	})
	c.Assert(err, qt.IsNotNil)
	c.Assert(redraw, qt.IsFalse)
	c.Assert(app.Settings.DayText(0), qt.Equals, "Su")
}
