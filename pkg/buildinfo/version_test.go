package buildinfo

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	info := Get()
	if info.Version != "dev" || info.Commit != "none" || info.Date != "unknown" {
		t.Errorf("Get() = %+v, want dev defaults", info)
	}
}

func TestTemplate(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", got)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
}
