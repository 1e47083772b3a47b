// Package misc keeps program identification stamped at build time.
package misc

import (
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X baseliner/misc.version=... -X baseliner/misc.gitHash=...".
var (
	version = ""
	gitHash = ""
)

const appName = "baseliner"

var buildInfo = sync.OnceValues(func() (string, string) {
	ver, hash := version, gitHash
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ver, hash
	}
	if ver == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		ver = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && hash == "" {
			hash = s.Value
		}
	}
	return ver, hash
})

func GetAppName() string {
	return appName
}

func GetVersion() string {
	if v, _ := buildInfo(); v != "" {
		return v
	}
	return "development"
}

func GetGitHash() string {
	if _, h := buildInfo(); h != "" {
		return h
	}
	return "unknown"
}
