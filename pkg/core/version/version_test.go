package version

import (
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestToolVersion(t *testing.T) {
	if !semverRegex.MatchString(Tool) {
		t.Errorf("Tool version %q does not match semver format (x.y.z)", Tool)
	}
}

func TestGet(t *testing.T) {
	info := Get()

	if info.Tool != Tool || info.API != API {
		t.Errorf("Get() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %v, want os/arch", info.Platform)
	}
	if !strings.Contains(info.String(), Tool) {
		t.Errorf("String() = %v, want it to contain %v", info.String(), Tool)
	}
}
