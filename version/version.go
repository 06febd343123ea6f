// Package version provides the name the server identifies itself with, derived from build info.
package version

import (
	"fmt"
	"runtime/debug"
)

const (
	modulePath = "github.com/upflare/tracker"
	serverName = "upflare-tracker"
)

var (
	// Like "upflare-tracker/v1.2.3". Sent as the HTTP Server header and used as the NATS client
	// name.
	DefaultServerName string
	// The main module and its version, for startup logging.
	DefaultBuildDescription string
)

func init() {
	info, ok := debug.ReadBuildInfo()
	DefaultServerName = serverName + "/" + moduleVersion(info, ok)
	if ok {
		DefaultBuildDescription = fmt.Sprintf("%v %v (%v)", info.Main.Path, info.Main.Version, info.GoVersion)
	} else {
		DefaultBuildDescription = "unknown build"
	}
}

// The version this module was built at, whether it's the main module or a dependency. A main
// module built from a checkout reports "(devel)".
func moduleVersion(info *debug.BuildInfo, ok bool) string {
	if !ok {
		return "unknown"
	}
	if info.Main.Path == modulePath {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != modulePath {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
