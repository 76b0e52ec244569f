package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/kxue43/next-fast/scaffold"
	"github.com/kxue43/next-fast/terminal"
	"github.com/kxue43/next-fast/tui"
	"github.com/kxue43/next-fast/version"
)

type pickFunc func(*scaffold.Options) error

func run(ctx context.Context, args []string, stdout, stderr io.Writer, runner scaffold.Runner, pick pickFunc) (exitCode int) {
	var cmd scaffold.NextAppCmd

	logger := log.New(stderr, "next-fast: ", 0)
	console := terminal.NewConsole(stdout, stderr)

	parser, err := kong.New(
		&cmd,
		kong.Name("next-fast"),
		kong.Description("Create a Next.js app with bun and initialize Prisma and shadcn."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.FromBuildInfo()},
		kong.Writers(stdout, stderr),
		kong.Configuration(scaffold.YAML, scaffold.ConfigPaths.YAML...),
		kong.Configuration(scaffold.TOML, scaffold.ConfigPaths.TOML...),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(runner, (*scaffold.Runner)(nil)),
		kong.Bind(console, logger),
	)
	if err != nil {
		logger.Print(err.Error())

		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err.Error())

		return 1
	}

	if cmd.Interactive {
		if err = pick(&cmd.Options); err != nil {
			logger.Print(err.Error())

			return 1
		}
	}

	if err = kctx.Run(); err != nil {
		logger.Print(err.Error())

		return 1
	}

	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	exitCode := run(ctx, os.Args[1:], os.Stdout, os.Stderr, scaffold.ExecRunner{}, tui.Pick)

	stop()

	os.Exit(exitCode)
}
