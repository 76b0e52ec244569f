package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// FromBuildInfo describes the running binary for --version.
func FromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unavailable"
	}

	return describe(info)
}

func describe(info *debug.BuildInfo) string {
	var revision, ts string

	modified := false

	for i := range info.Settings {
		switch info.Settings[i].Key {
		case "vcs.revision":
			revision = info.Settings[i].Value
		case "vcs.time":
			ts = info.Settings[i].Value
		case "vcs.modified":
			modified = info.Settings[i].Value == "true"
		default:
			continue
		}
	}

	var b strings.Builder

	v := info.Main.Version
	if v == "" || v == "(devel)" {
		v = "devel"
	}

	b.WriteString(v)

	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}

		fmt.Fprintf(&b, " (%s", revision)

		if modified {
			b.WriteString(", modified")
		}

		if ts != "" {
			fmt.Fprintf(&b, ", %s", ts)
		}

		b.WriteString(")")
	}

	fmt.Fprintf(&b, " %s", info.GoVersion)

	return b.String()
}
