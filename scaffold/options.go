package scaffold

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

type (
	// Options is the configuration record of one run.
	// It is filled once by the CLI layer and treated as read-only by the [Pipeline].
	Options struct {
		ProjectName string `arg:"" optional:"" name:"name" help:"Name of the project directory to create."`
		TypeScript  bool   `name:"typescript" short:"t" default:"true" negatable:"" help:"Use TypeScript instead of JavaScript."`
		Tailwind    bool   `name:"tailwind" default:"true" negatable:"" help:"Use Tailwind CSS."`
		ESLint      bool   `name:"eslint" default:"true" negatable:"" help:"Use ESLint."`
		AppRouter   bool   `name:"app" default:"true" negatable:"" help:"Use the App Router."`
		SkipInstall bool   `name:"skip-install" default:"false" help:"Skip the package manager selection prompt."`
	}

	// Switch maps one boolean option to the create-next-app flag that expresses it.
	Switch struct {
		Name  string
		On    string
		Off   string
		Value func(Options) bool
	}

	SemVer struct {
		major  string
		minor  string
		bugfix string
		set    bool
	}
)

var (
	// Switches lists the create-next-app flags in the order they are passed.
	// An empty Off means nothing is passed when the option is false.
	Switches = []Switch{
		{Name: "typescript", On: "--typescript", Off: "--javascript", Value: func(o Options) bool { return o.TypeScript }},
		{Name: "tailwind", On: "--tailwind", Off: "--no-tailwind", Value: func(o Options) bool { return o.Tailwind }},
		{Name: "eslint", On: "--eslint", Off: "--no-eslint", Value: func(o Options) bool { return o.ESLint }},
		{Name: "app", On: "--app", Off: "--no-app", Value: func(o Options) bool { return o.AppRouter }},
		{Name: "skip-install", On: "--skip-install", Value: func(o Options) bool { return o.SkipInstall }},
	}

	semVerRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)(\..+)?$`)
)

// DefaultOptions returns the options used when no flag is given.
func DefaultOptions(name string) Options {
	return Options{
		ProjectName: name,
		TypeScript:  true,
		Tailwind:    true,
		ESLint:      true,
		AppRouter:   true,
	}
}

// CreateArgs returns the arguments of "bun create next-app" for o.
func CreateArgs(o Options) []string {
	args := make([]string, 0, 3+len(Switches))

	args = append(args, "create", "next-app", o.ProjectName)

	for _, sw := range Switches {
		switch {
		case sw.Value(o):
			args = append(args, sw.On)
		case sw.Off != "":
			args = append(args, sw.Off)
		default:
		}
	}

	return args
}

func (sv *SemVer) String() string {
	if !sv.set {
		return "LATEST"
	}

	return fmt.Sprintf("%s.%s.%s", sv.major, sv.minor, sv.bugfix)
}

func (sv *SemVer) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), "LATEST") {
		*sv = SemVer{}

		return nil
	}

	m := semVerRegex.FindStringSubmatch(strings.TrimSpace(string(text)))
	if len(m) == 0 {
		return fmt.Errorf(`%s is not of the %s format`, string(text), semVerRegex)
	}

	parsed := SemVer{major: m[1], minor: m[2], bugfix: "0", set: true}

	if m[3] != "" {
		parsed.bugfix = strings.TrimPrefix(m[3], ".")
	}

	if !semver.IsValid("v" + parsed.String()) {
		return fmt.Errorf("%s is not a semantic version", string(text))
	}

	*sv = parsed

	return nil
}

func (sv *SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv *SemVer) Set() bool {
	return sv.set
}

// Older reports whether sv is strictly older than other.
// An unset version is never older than anything.
func (sv *SemVer) Older(other SemVer) bool {
	if !sv.set || !other.set {
		return false
	}

	return semver.Compare("v"+sv.String(), "v"+other.String()) < 0
}

// MustSemVer parses raw and panics on malformed input. Meant for constants.
func MustSemVer(raw string) SemVer {
	var sv SemVer

	if err := sv.UnmarshalText([]byte(raw)); err != nil {
		panic(err)
	}

	return sv
}

// ParseSemVer parses the first line of a tool's "--version" output.
func ParseSemVer(raw string) (SemVer, error) {
	var sv SemVer

	line, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")

	if err := sv.UnmarshalText([]byte(line)); err != nil {
		return SemVer{}, err
	}

	if !sv.set || !semver.IsValid("v"+sv.String()) {
		return SemVer{}, fmt.Errorf("%q is not a semantic version", line)
	}

	return sv, nil
}
