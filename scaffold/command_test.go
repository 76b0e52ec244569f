package scaffold

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/next-fast/terminal"
)

type harness struct {
	runner  *fakeRunner
	console *terminal.Console
	logger  *log.Logger
	out     bytes.Buffer
	errOut  bytes.Buffer
	logs    bytes.Buffer
}

func newHarness() *harness {
	h := harness{runner: &fakeRunner{version: "1.2.19\n"}}

	h.console = terminal.NewConsole(&h.out, &h.errOut)
	h.logger = log.New(&h.logs, "next-fast: ", 0)

	return &h
}

func newCmd(t *testing.T, o Options) *NextAppCmd {
	t.Helper()

	return &NextAppCmd{
		rootDir:       t.TempDir(),
		Options:       o,
		ShadcnVersion: "latest",
		MinBunVersion: MustSemVer("1.0.0"),
	}
}

func (h *harness) run(cmd *NextAppCmd) error {
	return cmd.Run(context.Background(), h.runner, h.console, h.logger)
}

func TestRunDefaults(t *testing.T) {
	h := newHarness()
	cmd := newCmd(t, DefaultOptions("demo"))

	err := h.run(cmd)
	require.NoError(t, err)

	projectDir := filepath.Join(cmd.rootDir, "demo")

	assert.Equal(t, []call{
		{dir: cmd.rootDir, line: "bun --version"},
		{dir: cmd.rootDir, line: "bun create next-app demo --typescript --tailwind --eslint --app"},
		{dir: projectDir, line: "bun add prisma @prisma/client"},
		{dir: projectDir, line: "bunx prisma init --datasource-provider sqlite"},
		{dir: projectDir, line: "bunx prisma generate"},
		{dir: projectDir, line: "bunx shadcn@latest init"},
	}, h.runner.calls)

	contents, err := os.ReadFile(filepath.Clean(filepath.Join(projectDir, SchemaPath)))
	require.NoError(t, err)

	assert.Equal(t, Schema(), contents)
	assert.Contains(t, string(contents), "model User {")
	assert.Contains(t, string(contents), "model Post {")
	assert.Contains(t, string(contents), "author    User     @relation(fields: [authorId], references: [id])")

	out := h.out.String()

	assert.Contains(t, out, "🚀 Creating Next.js app with Prisma...")
	assert.Contains(t, out, "✅ bun found!")
	assert.Contains(t, out, "📝 Created basic Prisma schema with User and Post models")
	assert.Contains(t, out, "🎉 Project created successfully with Next.js 15.4.6!")
	assert.Contains(t, out, "  1. cd demo")
	assert.Contains(t, out, "Happy coding! 🚀")
	assert.Empty(t, h.errOut.String())
}

func TestRunJavaScript(t *testing.T) {
	h := newHarness()

	o := DefaultOptions("demo")
	o.TypeScript = false
	o.SkipInstall = true

	require.NoError(t, h.run(newCmd(t, o)))

	assert.Equal(t, "bun create next-app demo --javascript --tailwind --eslint --app --skip-install", h.runner.calls[1].line)
}

func TestRunToolMissing(t *testing.T) {
	var opened string

	original := openURL
	openURL = func(url string) error {
		opened = url

		return nil
	}

	defer func() { openURL = original }()

	h := newHarness()
	h.runner.missing = map[string]bool{"bun": true}

	cmd := newCmd(t, DefaultOptions("demo"))
	cmd.Open = true

	err := h.run(cmd)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Empty(t, h.runner.calls, "no external tool may run when bun is missing")
	assert.Contains(t, h.errOut.String(), "❌ bun is not installed or not in PATH")
	assert.Contains(t, h.errOut.String(), "Please install bun from: https://bun.sh")
	assert.NotContains(t, h.out.String(), "Project created successfully")
	assert.Equal(t, "https://bun.sh", opened)

	var stepErr *StepError

	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 0, stepErr.Index)

	_, err = os.Stat(filepath.Join(cmd.rootDir, "demo"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunToolTooOld(t *testing.T) {
	h := newHarness()
	h.runner.version = "0.8.1\n"

	err := h.run(newCmd(t, DefaultOptions("demo")))

	require.ErrorIs(t, err, ErrToolTooOld)
	assert.Equal(t, []string{"bun --version"}, h.runner.lines())
	assert.Contains(t, h.errOut.String(), "bun is older than the minimum version 1.0.0")
}

func TestRunUnknownToolVersion(t *testing.T) {
	h := newHarness()
	h.runner.version = "canary build\n"

	require.NoError(t, h.run(newCmd(t, DefaultOptions("demo"))))
	assert.Contains(t, h.logs.String(), "could not parse the bun version")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	var tests = []struct {
		failOn  string
		failure string
		ran     []string
	}{
		{
			failOn:  "bun create",
			failure: "Failed to create Next.js app",
			ran:     []string{"bun --version", "bun create next-app demo --typescript --tailwind --eslint --app"},
		},
		{
			failOn:  "bun add",
			failure: "Failed to add Prisma dependencies",
			ran: []string{
				"bun --version",
				"bun create next-app demo --typescript --tailwind --eslint --app",
				"bun add prisma @prisma/client",
			},
		},
		{
			failOn:  "bunx prisma init",
			failure: "Failed to initialize Prisma",
			ran: []string{
				"bun --version",
				"bun create next-app demo --typescript --tailwind --eslint --app",
				"bun add prisma @prisma/client",
				"bunx prisma init --datasource-provider sqlite",
			},
		},
		{
			failOn:  "bunx prisma generate",
			failure: "Failed to generate Prisma client",
			ran: []string{
				"bun --version",
				"bun create next-app demo --typescript --tailwind --eslint --app",
				"bun add prisma @prisma/client",
				"bunx prisma init --datasource-provider sqlite",
				"bunx prisma generate",
			},
		},
		{
			failOn:  "bunx shadcn",
			failure: "Failed to initialize shadcn",
			ran: []string{
				"bun --version",
				"bun create next-app demo --typescript --tailwind --eslint --app",
				"bun add prisma @prisma/client",
				"bunx prisma init --datasource-provider sqlite",
				"bunx prisma generate",
				"bunx shadcn@latest init",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.failOn, func(t *testing.T) {
			h := newHarness()
			h.runner.failOn = test.failOn

			err := h.run(newCmd(t, DefaultOptions("demo")))

			require.ErrorIs(t, err, ErrStepFailed)
			assert.ErrorIs(t, err, errExit)
			assert.Equal(t, test.ran, h.runner.lines())
			assert.Contains(t, h.errOut.String(), "❌ "+test.failure)
			assert.NotContains(t, h.out.String(), "Project created successfully")
		})
	}
}

func TestRunPrismaAddFailureLeavesProjectAlone(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "bun add"

	cmd := newCmd(t, DefaultOptions("demo"))

	err := h.run(cmd)
	require.ErrorIs(t, err, ErrStepFailed)

	assert.False(t, h.runner.ran("bunx shadcn"))

	_, err = os.Stat(filepath.Join(cmd.rootDir, "demo", "package.json"))
	assert.NoError(t, err, "the partially created project stays on disk")

	_, err = os.Stat(filepath.Join(cmd.rootDir, "demo", SchemaPath))
	assert.True(t, os.IsNotExist(err))
}

func TestRunMissingProjectDirectory(t *testing.T) {
	h := newHarness()
	cmd := newCmd(t, DefaultOptions("demo"))

	// "create next-app" reports success but leaves nothing behind.
	runner := &noSideEffects{fakeRunner: h.runner}

	err := cmd.Run(context.Background(), runner, h.console, h.logger)
	require.Error(t, err)

	assert.Contains(t, h.errOut.String(), "❌ Failed to enter the project directory")
	assert.False(t, h.runner.ran("bun add"))
}

func TestRunAbsoluteProjectName(t *testing.T) {
	h := newHarness()

	projectDir := filepath.Join(t.TempDir(), "abs-demo")
	cmd := newCmd(t, DefaultOptions(projectDir))

	require.NoError(t, h.run(cmd))

	assert.Equal(t, projectDir, cmd.ProjectDir())
	assert.Equal(t, call{dir: projectDir, line: "bunx shadcn@latest init"}, h.runner.calls[len(h.runner.calls)-1])

	contents, err := os.ReadFile(filepath.Clean(filepath.Join(projectDir, SchemaPath)))
	require.NoError(t, err)
	assert.Equal(t, Schema(), contents)

	_, err = os.Stat(filepath.Join(cmd.rootDir, projectDir))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSchemaWriteFailure(t *testing.T) {
	h := newHarness()
	h.runner.noPrismaDir = true

	cmd := newCmd(t, DefaultOptions("demo"))

	err := h.run(cmd)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStepFailed)

	var stepErr *StepError

	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 6, stepErr.Index)

	assert.Equal(t, "bunx prisma init --datasource-provider sqlite", h.runner.calls[len(h.runner.calls)-1].line)
	assert.False(t, h.runner.ran("bunx prisma generate"))
	assert.False(t, h.runner.ran("bunx shadcn"))
	assert.Contains(t, h.errOut.String(), "❌ Failed to write the Prisma schema")
	assert.NotContains(t, h.out.String(), "📝 Created basic Prisma schema")
}

func TestSchemaDoesNotDependOnOptions(t *testing.T) {
	var first []byte

	for _, bits := range []int{0, 5, 10, 31} {
		h := newHarness()
		cmd := newCmd(t, optionsFromBits(bits))

		require.NoError(t, h.run(cmd))

		contents, err := os.ReadFile(filepath.Clean(filepath.Join(cmd.rootDir, "demo", SchemaPath)))
		require.NoError(t, err)

		if first == nil {
			first = contents

			continue
		}

		assert.Equal(t, first, contents)
	}
}

func TestWriteSchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prisma"), 0750))
	require.NoError(t, WriteSchema(dir))
	require.NoError(t, WriteSchema(dir))

	contents, err := os.ReadFile(filepath.Clean(filepath.Join(dir, SchemaPath)))
	require.NoError(t, err)

	assert.Equal(t, Schema(), contents)

	assert.Error(t, WriteSchema(filepath.Join(dir, "missing")), "the prisma directory has to exist")
}

func TestRunPinsPrismaVersion(t *testing.T) {
	h := newHarness()

	cmd := newCmd(t, DefaultOptions("demo"))
	cmd.PrismaVersion = MustSemVer("6.14.0")
	cmd.ShadcnVersion = "2.9.3"

	require.NoError(t, h.run(cmd))

	assert.True(t, h.runner.ran("bun add prisma@6.14.0 @prisma/client@6.14.0"))
	assert.True(t, h.runner.ran("bunx shadcn@2.9.3 init"))
}

func TestRunDryRun(t *testing.T) {
	h := newHarness()

	cmd := newCmd(t, DefaultOptions("demo"))
	cmd.DryRun = true

	require.NoError(t, h.run(cmd))

	assert.Empty(t, h.runner.calls, "dry runs never reach the real runner")

	out := h.out.String()

	assert.Contains(t, out, "[dry-run] (in "+cmd.rootDir+") bun create next-app demo --typescript --tailwind --eslint --app")
	assert.Contains(t, out, "[dry-run] write "+filepath.Join(cmd.rootDir, "demo", SchemaPath))
	assert.Contains(t, out, "bunx shadcn@latest init")
	assert.Contains(t, out, "🎉 Project created successfully!")

	_, err := os.Stat(filepath.Join(cmd.rootDir, "demo"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunDebugTracesCommands(t *testing.T) {
	h := newHarness()

	cmd := newCmd(t, DefaultOptions("demo"))
	cmd.Debug = true

	require.NoError(t, h.run(cmd))

	logs := h.logs.String()

	assert.Contains(t, logs, "ProjectName: (string) (len=4) \"demo\"")
	assert.Contains(t, logs, "9 steps, project directory "+filepath.Join(cmd.rootDir, "demo"))
	assert.Contains(t, logs, "next-fast: run in "+cmd.rootDir+": bun create next-app demo")
	assert.Contains(t, logs, "next-fast: look up bun: /usr/local/bin/bun")
}

func TestValidate(t *testing.T) {
	cmd := NextAppCmd{ShadcnVersion: "latest"}

	require.ErrorIs(t, cmd.Validate(), ErrInvalidInput)

	cmd.Interactive = true
	require.NoError(t, cmd.Validate())

	cmd.Options.ProjectName = "demo"
	cmd.ShadcnVersion = " "
	require.ErrorIs(t, cmd.Validate(), ErrInvalidInput)

	h := newHarness()

	err := h.run(&NextAppCmd{ShadcnVersion: "latest"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, h.runner.calls)
}

// noSideEffects records like fakeRunner but creates nothing on disk.
type noSideEffects struct {
	*fakeRunner
}

func (n *noSideEffects) Run(_ context.Context, dir, name string, args ...string) error {
	n.calls = append(n.calls, call{dir: dir, line: CommandLine(name, args...)})

	return nil
}
