package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// ErrNoBrowser is returned when no opener command is installed
var ErrNoBrowser = errors.New("no supported browser found on this system")

// Command is one way of opening a target on the current platform
type Command struct {
	Name string
	Path string
	Args func(target string) []string
}

// Opener implements ports.BrowserOpener by starting the first platform
// command found in PATH
type Opener struct {
	commands []Command
	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
	logger   *zap.Logger
}

// NewOpener creates an opener for the current platform
func NewOpener(logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{
		commands: platformCommands(runtime.GOOS),
		lookPath: exec.LookPath,
		start:    startDetached,
		logger:   logger.Named("browser"),
	}
}

// Open opens target without waiting for the browser to exit
func (o *Opener) Open(target string) error {
	cmd, err := o.selectCommand()
	if err != nil {
		return err
	}

	o.logger.Debug("opening in browser", zap.String("browser", cmd.Name), zap.String("target", target))

	if err := o.start(cmd.Path, cmd.Args(target)...); err != nil {
		return fmt.Errorf("launching %s: %w", cmd.Name, err)
	}
	return nil
}

// Detect returns the name of the command Open would use
func (o *Opener) Detect() (string, error) {
	cmd, err := o.selectCommand()
	if err != nil {
		return "", err
	}
	return cmd.Name, nil
}

func (o *Opener) selectCommand() (*Command, error) {
	for _, candidate := range o.commands {
		if _, err := o.lookPath(candidate.Path); err == nil {
			return &candidate, nil
		}
	}
	return nil, ErrNoBrowser
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - name comes from platformCommands
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func single(target string) []string { return []string{target} }

// platformCommands lists opener commands in preference order
func platformCommands(goos string) []Command {
	switch goos {
	case "darwin":
		return []Command{
			{Name: "Default", Path: "open", Args: single},
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []Command{
			{Name: "xdg-open", Path: "xdg-open", Args: single},
			{Name: "Chrome", Path: "google-chrome", Args: single},
			{Name: "Chromium", Path: "chromium", Args: single},
			{Name: "Firefox", Path: "firefox", Args: single},
		}
	case "windows":
		return []Command{
			{Name: "Default", Path: "rundll32", Args: func(target string) []string {
				return []string{"url.dll,FileProtocolHandler", target}
			}},
		}
	default:
		return nil
	}
}

var _ ports.BrowserOpener = (*Opener)(nil)
