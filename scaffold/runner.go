package scaffold

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

type (
	// Runner starts external tools.
	// Run must inherit the caller's output streams and report a non-zero exit as an error.
	Runner interface {
		LookPath(name string) (string, error)
		Run(ctx context.Context, dir, name string, args ...string) error
		Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	}

	// ExecRunner runs tools with os/exec.
	ExecRunner struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// DryRunner prints every command instead of running it.
	DryRunner struct {
		Out io.Writer
		// Version is what Output reports for "--version" calls.
		Version string
	}

	// TraceRunner logs every command before handing it to Next.
	TraceRunner struct {
		Next   Runner
		Logger *log.Logger
	}
)

func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (r ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}

	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}

	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%q failed: %w", CommandLine(name, args...), err)
	}

	return nil
}

func (r ExecRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = r.Stderr

	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%q failed: %w", CommandLine(name, args...), err)
	}

	return out, nil
}

func (r DryRunner) LookPath(name string) (string, error) {
	return name, nil
}

func (r DryRunner) Run(_ context.Context, dir, name string, args ...string) error {
	_, err := fmt.Fprintf(r.Out, "[dry-run] (in %s) %s\n", dir, CommandLine(name, args...))

	return err
}

func (r DryRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := r.Run(ctx, dir, name, args...); err != nil {
		return nil, err
	}

	return []byte(r.Version), nil
}

func (r TraceRunner) LookPath(name string) (string, error) {
	path, err := r.Next.LookPath(name)
	if err != nil {
		r.Logger.Printf("look up %s: %s", name, err)
	} else {
		r.Logger.Printf("look up %s: %s", name, path)
	}

	return path, err
}

func (r TraceRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.Logger.Printf("run in %s: %s", dir, CommandLine(name, args...))

	err := r.Next.Run(ctx, dir, name, args...)
	if err != nil {
		r.Logger.Printf("-> %s", err)
	}

	return err
}

func (r TraceRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	r.Logger.Printf("run in %s: %s", dir, CommandLine(name, args...))

	out, err := r.Next.Output(ctx, dir, name, args...)
	if err != nil {
		r.Logger.Printf("-> %s", err)
	} else {
		r.Logger.Printf("-> %q", strings.TrimSpace(string(out)))
	}

	return out, err
}
