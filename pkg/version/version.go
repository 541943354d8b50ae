// Package version stamps the running gitfolio build.
//
// The revision comes from -ldflags when a build pipeline injects one,
// from the VCS metadata the Go toolchain embeds otherwise, and falls
// back to "dev" for builds without either (go test, source tarballs).
package version

import "runtime/debug"

// AppName is the service name used in logs and the version string.
const AppName = "gitfolio"

// commit receives the revision at build time:
//
//	go build -ldflags "-X github.com/gitfolio/gitfolio/pkg/version.commit=$(git rev-parse HEAD)"
var commit string

// GitCommit is the short revision identifying this build, or "dev".
var GitCommit = resolveCommit()

// Full returns the service identity, e.g. "gitfolio/1a2b3c4d".
func Full() string {
	return AppName + "/" + GitCommit
}

func resolveCommit() string {
	if commit != "" {
		return shortRev(commit)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return shortRev(s.Value)
			}
		}
	}
	return "dev"
}

func shortRev(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
