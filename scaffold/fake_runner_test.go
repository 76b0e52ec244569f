package scaffold

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type (
	call struct {
		dir  string
		line string
	}

	// fakeRunner records calls and imitates the side effects of the real tools.
	fakeRunner struct {
		calls   []call
		missing map[string]bool
		failOn  string
		version string
		// noPrismaDir makes "prisma init" succeed without creating anything.
		noPrismaDir bool
	}
)

const fakePackageJSON = `{
  "name": "demo",
  "dependencies": {
    "react": "19.1.0",
    "next": "15.4.6"
  }
}
`

var errExit = errors.New("exit status 1")

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", exec.ErrNotFound
	}

	return "/usr/local/bin/" + name, nil
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	line := CommandLine(name, args...)

	f.calls = append(f.calls, call{dir: dir, line: line})

	if f.failOn != "" && strings.HasPrefix(line, f.failOn) {
		return errExit
	}

	switch {
	case name == "bun" && len(args) > 2 && args[0] == "create":
		projectDir := args[2]

		if !filepath.IsAbs(projectDir) {
			projectDir = filepath.Join(dir, projectDir)
		}

		if err := os.MkdirAll(projectDir, 0750); err != nil {
			return err
		}

		return os.WriteFile(filepath.Join(projectDir, "package.json"), []byte(fakePackageJSON), 0600)
	case line == "bunx prisma init --datasource-provider sqlite" && !f.noPrismaDir:
		if err := os.MkdirAll(filepath.Join(dir, "prisma"), 0750); err != nil {
			return err
		}

		return os.WriteFile(filepath.Join(dir, SchemaPath), []byte("// generated by prisma init\n"), 0600)
	default:
		return nil
	}
}

func (f *fakeRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	line := CommandLine(name, args...)

	f.calls = append(f.calls, call{dir: dir, line: line})

	if f.failOn != "" && strings.HasPrefix(line, f.failOn) {
		return nil, errExit
	}

	return []byte(f.version), nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, len(f.calls))

	for i := range f.calls {
		out[i] = f.calls[i].line
	}

	return out
}

func (f *fakeRunner) ran(prefix string) bool {
	for i := range f.calls {
		if strings.HasPrefix(f.calls[i].line, prefix) {
			return true
		}
	}

	return false
}
