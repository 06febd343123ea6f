package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestDefaultServerName(t *testing.T) {
	qt.Check(t, qt.IsTrue(strings.HasPrefix(DefaultServerName, "upflare-tracker/")))
	qt.Check(t, qt.Not(qt.Equals(DefaultBuildDescription, "")))
}

func TestModuleVersion(t *testing.T) {
	qt.Check(t, qt.Equals(moduleVersion(nil, false), "unknown"))
	qt.Check(t, qt.Equals(moduleVersion(&debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "(devel)"},
	}, true), "(devel)"))
	qt.Check(t, qt.Equals(moduleVersion(&debug.BuildInfo{
		Main: debug.Module{Path: "example.com/app", Version: "v0.1.0"},
		Deps: []*debug.Module{
			{Path: "github.com/upflare/tracker-extras", Version: "v9.0.0"},
			{Path: modulePath, Version: "v1.2.3"},
		},
	}, true), "v1.2.3"))
	qt.Check(t, qt.Equals(moduleVersion(&debug.BuildInfo{
		Main: debug.Module{Path: "example.com/app"},
	}, true), "unknown"))
}
