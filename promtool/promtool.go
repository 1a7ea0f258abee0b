// Package promtool runs promtool checks and unit tests over rule files.
package promtool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "promtool")

// Error is returned when an underlying call to promtool failed.
type Error struct {
	Executable    string
	Operation     string
	FileName      string
	Stdout        string
	Stderr        string
	OriginalError error
}

func (p Error) Error() string {
	return fmt.Sprintf("%s %s %s failed (%s).\nstdout: %s\nstderr: %s\n", p.Executable, p.Operation, p.FileName, p.OriginalError, p.Stdout, p.Stderr)
}

func (p Error) Unwrap() error {
	return p.OriginalError
}

// Promtool wraps the promtool executable.
type Promtool struct {
	Executable string
}

// New finds a usable promtool in PATH.
func New() (*Promtool, error) {
	for _, name := range []string{"promtool.exe", "promtool"} {
		if path, err := exec.LookPath(name); err == nil {
			return &Promtool{Executable: path}, nil
		}
	}
	return nil, errors.New("promtool not found in path")
}

// Check runs promtool check rules on a rule file.
func (p *Promtool) Check(ctx context.Context, file string) (string, error) {
	return p.execute(ctx, "check", file, "")
}

// Test runs promtool test rules on a test file in workdir, or in the
// current working directory when workdir is empty.
func (p *Promtool) Test(ctx context.Context, file, workdir string) (string, error) {
	return p.execute(ctx, "test", file, workdir)
}

func (p *Promtool) execute(ctx context.Context, op, path, workdir string) (string, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, p.Executable, op, "rules", path)
	c.Dir = workdir
	c.Stdout = &stdout
	c.Stderr = &stderr

	log.WithFields(logrus.Fields{"op": op, "file": path}).Debug("running promtool")
	if err := c.Run(); err != nil {
		return "", Error{
			Executable:    p.Executable,
			Operation:     op,
			FileName:      path,
			Stdout:        stdout.String(),
			Stderr:        stderr.String(),
			OriginalError: err,
		}
	}
	return stdout.String(), nil
}

// CheckDirectory checks every *.yaml file in dir, which must contain at
// least one.
func (p *Promtool) CheckDirectory(ctx context.Context, dir string) error {
	return p.executeDirectory(ctx, "check", dir, "")
}

// TestDirectory runs every *.yaml test in dir, resolved against workdir.
func (p *Promtool) TestDirectory(ctx context.Context, dir, workdir string) error {
	return p.executeDirectory(ctx, "test", dir, workdir)
}

func (p *Promtool) executeDirectory(ctx context.Context, op, dir, workdir string) error {
	paths, err := filepath.Glob(filepath.Join(workdir, dir, "*.yaml"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no .yaml files found in directory %s", dir)
	}
	for _, path := range paths {
		var err error
		switch op {
		case "check":
			_, err = p.Check(ctx, path)
		case "test":
			_, err = p.Test(ctx, path, workdir)
		default:
			return errors.Errorf("invalid operation %s", op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
