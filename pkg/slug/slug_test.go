package slug_test

import (
	"regexp"
	"testing"

	"github.com/sortinghat-io/sortinghat/pkg/slug"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Security", "security"},
		{"spaces", "Endpoint Security", "endpoint_security"},
		{"ampersand", "Data & Analytics", "data_analytics"},
		{"punctuation runs", "CI/CD -- Pipelines!", "ci_cd_pipelines"},
		{"parenthesized", "Security (Hardware)", "security_hardware"},
		{"leading trailing", "  --Edge-- ", "edge"},
		{"digits", "S3-Compatible Storage", "s3_compatible_storage"},
		{"empty", "", ""},
		{"only symbols", "&&&", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slug.Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	charset := regexp.MustCompile(`^[a-z0-9_]*$`)
	inputs := []string{
		"Security", "Data & Analytics", "API Gateways / Service Mesh",
		"  mixed CASE  input ", "already_a_slug", "",
	}

	for _, in := range inputs {
		once := slug.Slugify(in)
		twice := slug.Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
		if !charset.MatchString(once) {
			t.Errorf("Slugify(%q) = %q contains invalid characters", in, once)
		}
	}
}

func TestChildPath(t *testing.T) {
	tests := []struct {
		name       string
		parentPath string
		nodeName   string
		want       string
	}{
		{"root", "", "Security (Software)", "security_software"},
		{"child", "security_software", "Endpoint Security", "security_software.endpoint_security"},
		{"grandchild", "security_software.endpoint_security", "EDR", "security_software.endpoint_security.edr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slug.ChildPath(tt.parentPath, tt.nodeName); got != tt.want {
				t.Errorf("ChildPath(%q, %q) = %q, want %q", tt.parentPath, tt.nodeName, got, tt.want)
			}
		})
	}
}

func TestIsDescendant(t *testing.T) {
	tests := []struct {
		root string
		path string
		want bool
	}{
		{"security", "security.endpoint", true},
		{"security", "security.endpoint.edr", true},
		{"security", "security", false},
		{"sec", "security", false},
		{"sec", "security.endpoint", false},
		{"", "security", false},
	}

	for _, tt := range tests {
		if got := slug.IsDescendant(tt.root, tt.path); got != tt.want {
			t.Errorf("IsDescendant(%q, %q) = %v, want %v", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestAncestorPaths(t *testing.T) {
	got := slug.AncestorPaths("a.b.c")
	want := []string{"a", "a.b"}
	if len(got) != len(want) {
		t.Fatalf("AncestorPaths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AncestorPaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if ancestors := slug.AncestorPaths("root"); ancestors != nil {
		t.Errorf("AncestorPaths(root) = %v, want nil", ancestors)
	}
}

func TestValidPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"security_software.endpoint_security", true},
		{"a.b.c", true},
		{"", false},
		{"a..b", false},
		{"a.b-c", false},
		{"a.", false},
	}

	for _, tt := range tests {
		if got := slug.ValidPath(tt.path); got != tt.want {
			t.Errorf("ValidPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
