package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type started struct {
	name string
	args []string
}

// newTestOpener returns an opener whose PATH holds only installed
func newTestOpener(installed ...string) (*Opener, *[]started) {
	var calls []started
	o := NewOpener(nil)
	o.commands = platformCommands("linux")
	o.lookPath = func(file string) (string, error) {
		for _, name := range installed {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
	o.start = func(name string, args ...string) error {
		calls = append(calls, started{name: name, args: args})
		return nil
	}
	return o, &calls
}

func TestOpenerOpen(t *testing.T) {
	t.Run("prefers first installed command", func(t *testing.T) {
		o, calls := newTestOpener("firefox", "xdg-open")

		require.NoError(t, o.Open("/tmp/deck.html"))
		require.Len(t, *calls, 1)
		assert.Equal(t, started{name: "xdg-open", args: []string{"/tmp/deck.html"}}, (*calls)[0])
	})

	t.Run("falls back down the list", func(t *testing.T) {
		o, calls := newTestOpener("firefox")

		require.NoError(t, o.Open("http://localhost:8080/api/sessions/abc/preview"))
		require.Len(t, *calls, 1)
		assert.Equal(t, "firefox", (*calls)[0].name)
	})

	t.Run("nothing installed", func(t *testing.T) {
		o, calls := newTestOpener()

		err := o.Open("/tmp/deck.html")
		require.ErrorIs(t, err, ErrNoBrowser)
		assert.Empty(t, *calls)
	})

	t.Run("start failure", func(t *testing.T) {
		o, _ := newTestOpener("xdg-open")
		o.start = func(string, ...string) error { return errors.New("exec format error") }

		err := o.Open("/tmp/deck.html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "launching xdg-open")
	})
}

func TestOpenerDetect(t *testing.T) {
	o, _ := newTestOpener("chromium")
	name, err := o.Detect()
	require.NoError(t, err)
	assert.Equal(t, "Chromium", name)

	o, _ = newTestOpener()
	_, err = o.Detect()
	assert.ErrorIs(t, err, ErrNoBrowser)
}

func TestPlatformCommands(t *testing.T) {
	for _, goos := range []string{"darwin", "linux", "windows"} {
		assert.NotEmpty(t, platformCommands(goos), goos)
	}
	assert.Empty(t, platformCommands("plan9"))

	win := platformCommands("windows")[0]
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "C:\\deck.html"}, win.Args("C:\\deck.html"))
}
