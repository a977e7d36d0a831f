package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version ") {
		t.Errorf("Template() = %q, should start with cobra name placeholder", tmpl)
	}
	if !strings.Contains(tmpl, Commit) {
		t.Errorf("Template() = %q, should contain commit %q", tmpl, Commit)
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := UserAgent(); got != "perturbviz/v1.2.3" {
		t.Errorf("UserAgent() = %q, want %q", got, "perturbviz/v1.2.3")
	}
}
