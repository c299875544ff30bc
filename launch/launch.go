// Package launch starts games and plugin commands as child processes and
// tracks them until they exit.
package launch

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RomToken is replaced by the game file in platform arguments.
const RomToken = "%ROM%"

// KillTimeout is how long Kill waits after asking the process group to
// terminate before forcing it.
const KillTimeout = 3 * time.Second

// ErrEmptyCommand is returned when there is nothing to run.
var ErrEmptyCommand = errors.New("launch: empty command")

// SplitArgs splits an argument template on whitespace. Double or single
// quotes group words; quotes are removed.
func SplitArgs(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		have  bool
	)
	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
			have = true
		case quote == 0 && (r == ' ' || r == '\t'):
			if have {
				out = append(out, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if have {
		out = append(out, cur.String())
	}
	return out
}

// Expand splits args and substitutes rom for every RomToken. The file is
// substituted after splitting, so a path with spaces stays one argument.
func Expand(args, rom string) []string {
	parts := SplitArgs(args)
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, RomToken, rom)
	}
	return parts
}

// Process is a running child.
type Process struct {
	Name string
	cmd  *exec.Cmd

	done chan struct{}

	mu  sync.Mutex
	err error
}

// Start runs path with args. The child gets its own process group so Kill
// takes down anything it spawns.
func Start(name, path string, args []string) (*Process, error) {
	if path == "" {
		return nil, ErrEmptyCommand
	}
	cmd := exec.Command(path, args...)
	cmd.Dir = filepath.Dir(path)
	configure(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	p := &Process{Name: name, cmd: cmd, done: make(chan struct{})}
	go p.wait()
	return p, nil
}

// StartCommand runs a whole command line, as returned by plugins.
func StartCommand(name, command string, args []string) (*Process, error) {
	if len(args) == 0 {
		parts := SplitArgs(command)
		if len(parts) == 0 {
			return nil, ErrEmptyCommand
		}
		command, args = parts[0], parts[1:]
	}
	return Start(name, command, args)
}

func (p *Process) wait() {
	err := p.cmd.Wait()
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.done)
}

// Pid returns the process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed when the process exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Err returns the exit error once the process has exited.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Kill terminates the process group and waits for the process to exit.
func (p *Process) Kill() error {
	if p.Exited() {
		return nil
	}
	if err := terminate(p.cmd); err != nil {
		log.Printf("Failed to terminate %s: %v", p.Name, err)
	}
	select {
	case <-p.done:
		return nil
	case <-time.After(KillTimeout):
	}
	if err := forceKill(p.cmd); err != nil {
		return fmt.Errorf("failed to kill %s: %w", p.Name, err)
	}
	<-p.done
	return nil
}
