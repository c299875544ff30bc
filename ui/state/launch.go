package state

import (
	"errors"
	"fmt"
	"log"

	"github.com/user-none/yaffe/launch"
	"github.com/user-none/yaffe/plugins"
)

// ErrAlreadyRunning is returned when launching while a child is running.
var ErrAlreadyRunning = errors.New("a game is already running")

// Process is a running child. *launch.Process satisfies it.
type Process interface {
	Done() <-chan struct{}
	Exited() bool
	Kill() error
}

// Spawner starts a child process.
type Spawner func(name, path string, args []string) (Process, error)

// StartProcess is the default Spawner.
func StartProcess(name, path string, args []string) (Process, error) {
	p, err := launch.Start(name, path, args)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Running returns the child process and its name, nil when none.
func (s *State) Running() (Process, string) {
	return s.process, s.processName
}

// PollProcess clears the child once it has exited. It reports true on the
// call that observes the exit.
func (s *State) PollProcess() bool {
	if s.process == nil || !s.process.Exited() {
		return false
	}
	log.Printf("%s exited", s.processName)
	s.process = nil
	s.processName = ""
	return true
}

// KillProcess terminates the running child.
func (s *State) KillProcess() error {
	if s.process == nil {
		return nil
	}
	err := s.process.Kill()
	s.process = nil
	s.processName = ""
	return err
}

// Launch starts t. Game tiles record their launch time and run the
// platform's emulator; plugin folders open in place; other plugin tiles
// run whatever the plugin selects. It reports whether a child was started.
func (s *State) Launch(t Tile) (bool, error) {
	if !s.Allowed(t) {
		return false, ErrRestricted
	}
	if s.process != nil && !s.process.Exited() {
		return false, ErrAlreadyRunning
	}

	if t.Item != nil {
		return s.launchItem(t)
	}

	platform, err := s.store.Platform(t.PlatformID)
	if err != nil {
		return false, fmt.Errorf("failed to find platform: %w", err)
	}
	if err := s.store.UpdateLastRun(t.GameID, s.now()); err != nil {
		return false, fmt.Errorf("failed to record launch: %w", err)
	}
	return s.spawn(t.Name, platform.Path, launch.Expand(platform.Args, t.File))
}

func (s *State) launchItem(t Tile) (bool, error) {
	if t.Folder {
		return false, s.OpenFolder(t)
	}
	g, err := s.pluginGroup()
	if err != nil {
		return false, err
	}
	action, err := s.host.Select(g.Plugin, *t.Item)
	if err != nil {
		return false, fmt.Errorf("failed to select %s: %w", t.Name, err)
	}

	switch action.Kind {
	case plugins.ActionProcess:
		path, args := action.Command, action.Args
		if len(args) == 0 {
			parts := launch.SplitArgs(path)
			if len(parts) == 0 {
				return false, launch.ErrEmptyCommand
			}
			path, args = parts[0], parts[1:]
		}
		return s.spawn(t.Name, path, args)
	case plugins.ActionWebview:
		return s.spawn(t.Name, s.HelperPath, []string{"webview", action.URL})
	default:
		return false, nil
	}
}

func (s *State) spawn(name, path string, args []string) (bool, error) {
	p, err := s.Spawn(name, path, args)
	if err != nil {
		s.process = nil
		s.processName = ""
		return false, fmt.Errorf("failed to launch %s: %w", name, err)
	}
	log.Printf("Launched %s (%s)", name, path)
	s.process = p
	s.processName = name
	return true, nil
}
