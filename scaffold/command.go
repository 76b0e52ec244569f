package scaffold

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/browser"

	"github.com/kxue43/next-fast/terminal"
)

type (
	NextAppCmd struct {
		rootDir       string
		Options       Options          `embed:""`
		PrismaVersion SemVer           `name:"prisma-version" default:"LATEST" help:"Pin prisma and @prisma/client to this version."`
		ShadcnVersion string           `name:"shadcn-version" default:"latest" help:"Tag of the shadcn package used for \"shadcn init\"."`
		MinBunVersion SemVer           `name:"min-bun-version" default:"1.0.0" help:"Oldest bun release accepted."`
		Interactive   bool             `name:"interactive" short:"i" help:"Pick the project name and options in a terminal form."`
		DryRun        bool             `name:"dry-run" help:"Print the commands instead of running them."`
		Debug         bool             `name:"debug" help:"Dump the resolved options and trace every command."`
		Open          bool             `name:"open" help:"Open the bun install page in the browser when bun is missing."`
		Config        kong.ConfigFlag  `name:"config" help:"TOML file with flag defaults."`
		Version       kong.VersionFlag `name:"version" help:"Show version information and quit."`
	}
)

const (
	Tool          = "bun"
	ToolRunner    = "bunx"
	bunInstallURL = "https://bun.sh"
)

var (
	ErrInvalidInput = errors.New("invalid CLI input")

	openURL = browser.OpenURL
)

func (c *NextAppCmd) AfterApply() (err error) {
	c.rootDir, err = os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	return nil
}

// Non-nil returned error wraps [ErrInvalidInput].
func (c *NextAppCmd) Validate() error {
	if c.Options.ProjectName == "" && !c.Interactive {
		return fmt.Errorf("%w: the <name> argument is required unless --interactive is given", ErrInvalidInput)
	}

	if strings.TrimSpace(c.ShadcnVersion) == "" {
		return fmt.Errorf("%w: --shadcn-version cannot be empty", ErrInvalidInput)
	}

	return nil
}

// ProjectDir is where "create next-app" puts the project.
// Relative names resolve against the directory the command started in.
func (c *NextAppCmd) ProjectDir() string {
	if filepath.IsAbs(c.Options.ProjectName) {
		return filepath.Clean(c.Options.ProjectName)
	}

	return filepath.Clean(filepath.Join(c.rootDir, c.Options.ProjectName))
}

func (c *NextAppCmd) prismaAddArgs() []string {
	if !c.PrismaVersion.Set() {
		return []string{"add", "prisma", "@prisma/client"}
	}

	v := c.PrismaVersion.String()

	return []string{"add", "prisma@" + v, "@prisma/client@" + v}
}

func (c *NextAppCmd) checkTool(runner Runner, logger *log.Logger) func(context.Context) error {
	return func(context.Context) error {
		if _, err := runner.LookPath(Tool); err != nil {
			if c.Open {
				if err1 := openURL(bunInstallURL); err1 != nil {
					logger.Printf("failed to open %s: %s", bunInstallURL, err1)
				}
			}

			return fmt.Errorf("%w: %s: %w", ErrToolNotFound, Tool, err)
		}

		return nil
	}
}

// checkToolVersion only fails when the version is known and too old.
func (c *NextAppCmd) checkToolVersion(runner Runner, logger *log.Logger, dir func() string) func(context.Context) error {
	return func(ctx context.Context) error {
		out, err := runner.Output(ctx, dir(), Tool, "--version")
		if err != nil {
			logger.Printf("could not determine the %s version: %s", Tool, err)

			return nil
		}

		if len(out) == 0 {
			return nil
		}

		installed, err := ParseSemVer(string(out))
		if err != nil {
			logger.Printf("could not parse the %s version: %s", Tool, err)

			return nil
		}

		if installed.Older(c.MinBunVersion) {
			return fmt.Errorf("%w: %s %s is older than %s", ErrToolTooOld, Tool, installed.String(), c.MinBunVersion.String())
		}

		return nil
	}
}

// Steps lists the pipeline for c. Commands after "create next-app" run inside the project directory.
func (c *NextAppCmd) Steps(runner Runner, console *terminal.Console, logger *log.Logger) []Step {
	workDir := c.rootDir
	dir := func() string { return workDir }

	return []Step{
		{
			Title:   "🔍 Checking for bun...",
			Staged:  true,
			Action:  c.checkTool(runner, logger),
			Failure: "bun is not installed or not in PATH",
			Hint:    "Please install bun from: " + bunInstallURL,
		},
		{
			Action:  c.checkToolVersion(runner, logger, dir),
			Done:    "✅ bun found!",
			Failure: fmt.Sprintf("bun is older than the minimum version %s", c.MinBunVersion.String()),
			Hint:    `Run "bun upgrade" or lower --min-bun-version.`,
		},
		{
			Title:   "📦 Creating Next.js app with bun...",
			Staged:  true,
			Action:  RunTool(runner, dir, Tool, CreateArgs(c.Options)...),
			Done:    "✅ Next.js app created successfully!",
			Failure: "Failed to create Next.js app",
		},
		{
			Title:  "🗄️ Initializing Prisma...",
			Staged: true,
			Action: func(context.Context) error {
				projectDir := c.ProjectDir()

				if !c.DryRun {
					info, err := os.Stat(projectDir)
					if err != nil {
						return fmt.Errorf("failed to enter project directory: %w", err)
					}

					if !info.IsDir() {
						return fmt.Errorf("failed to enter project directory: %q is not a directory", projectDir)
					}
				}

				workDir = projectDir

				return nil
			},
			Failure: "Failed to enter the project directory",
		},
		{
			Title:   "📦 Adding Prisma dependencies...",
			Action:  RunTool(runner, dir, Tool, c.prismaAddArgs()...),
			Failure: "Failed to add Prisma dependencies",
		},
		{
			Title:   "🔧 Initializing Prisma schema...",
			Action:  RunTool(runner, dir, ToolRunner, "prisma", "init", "--datasource-provider", "sqlite"),
			Failure: "Failed to initialize Prisma",
		},
		{
			Action: func(context.Context) error {
				if c.DryRun {
					console.Plain(fmt.Sprintf("[dry-run] write %s", filepath.Join(workDir, SchemaPath)))

					return nil
				}

				return WriteSchema(workDir)
			},
			Done:    "📝 Created basic Prisma schema with User and Post models",
			Failure: "Failed to write the Prisma schema",
		},
		{
			Title:   "⚡ Generating Prisma client...",
			Action:  RunTool(runner, dir, ToolRunner, "prisma", "generate"),
			Done:    "✅ Prisma initialized successfully!",
			Failure: "Failed to generate Prisma client",
		},
		{
			Title:   "📦 Initializing shadcn...",
			Staged:  true,
			Action:  RunTool(runner, dir, ToolRunner, "shadcn@"+c.ShadcnVersion, "init"),
			Done:    "✅ shadcn initialized successfully!",
			Failure: "Failed to initialize shadcn",
		},
	}
}

// Run scaffolds the project. The arguments are kong bindings.
func (c *NextAppCmd) Run(ctx context.Context, runner Runner, console *terminal.Console, logger *log.Logger) error {
	if c.Options.ProjectName == "" {
		return fmt.Errorf("%w: the project name is empty", ErrInvalidInput)
	}

	if c.DryRun {
		runner = DryRunner{Out: console.Out()}
	}

	if c.Debug {
		spew.Fdump(logger.Writer(), c.Options)
		logger.Printf("prisma-version=%s shadcn-version=%s min-bun-version=%s root=%s", c.PrismaVersion.String(), c.ShadcnVersion, c.MinBunVersion.String(), c.rootDir)

		runner = TraceRunner{Next: runner, Logger: logger}
	}

	pipeline := NewPipeline(console, c.Steps(runner, console, logger)...)

	if c.Debug {
		logger.Printf("%d steps, project directory %s", pipeline.Len(), c.ProjectDir())
	}

	console.Heading("🚀 Creating Next.js app with Prisma...")

	if err := pipeline.Run(ctx); err != nil {
		return err
	}

	var nextVersion string

	if !c.DryRun {
		v, err := NextVersion(ctx, c.ProjectDir())
		if err != nil && c.Debug {
			logger.Printf("could not read the next version from package.json: %s", err)
		}

		nextVersion = v
	}

	PrintSummary(console, c.Options.ProjectName, nextVersion)

	return nil
}
