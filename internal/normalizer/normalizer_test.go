package normalizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse(t *testing.T) {
	tests := []struct {
		cell string
		want UrlParts
	}{
		{"a.com/x", UrlParts{Domain: "a.com", Path: "x"}},
		{"www.a.com/x/y/", UrlParts{Domain: "www.a.com", Path: "x/y/"}},
		{"http://a.com/x", UrlParts{Domain: "http://a.com", Path: "x"}},
		{"https://a.com/", UrlParts{Domain: "https://a.com", Path: ""}},
		{"HTTPS.Example.COM/x", UrlParts{Domain: "HTTPS.Example.COM", Path: "x"}},
		{"/x/y", UrlParts{Path: "/x/y"}},
		{"x/y", UrlParts{Path: "x/y"}},
		{"old.html", UrlParts{Path: "old.html"}},
		{"a.com", UrlParts{Path: "a.com"}},
		{"localhost/x", UrlParts{Path: "localhost/x"}},
		{"https://localhost/x", UrlParts{Path: "https://localhost/x"}},
		{"my-site.com/x", UrlParts{Path: "my-site.com/x"}},
		{"a1.com/x", UrlParts{Path: "a1.com/x"}},
		{"a..com/x", UrlParts{Path: "a..com/x"}},
		{".a.com/x", UrlParts{Path: ".a.com/x"}},
		{"ftp://a.com/x", UrlParts{Path: "ftp://a.com/x"}},
		{"", UrlParts{}},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.cell)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.cell, diff)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want RedirectRule
	}{
		{
			name: "same domain by inheritance",
			from: "a.com/x", to: "/y",
			want: RedirectRule{FromPath: "x", ToPath: "y", StatusCode: "302"},
		},
		{
			name: "same domain written on both sides",
			from: "a.com/x", to: "a.com/y",
			want: RedirectRule{FromPath: "x", ToPath: "y", StatusCode: "302"},
		},
		{
			name: "different domain",
			from: "a.com/x", to: "b.com/y",
			want: RedirectRule{FromPath: "x", ToPath: "b.com/y", StatusCode: "302"},
		},
		{
			name: "absolute target with no source domain",
			from: "/x", to: "https://a.com/y",
			want: RedirectRule{FromPath: "x", ToPath: "https://a.com/y", StatusCode: "302"},
		},
		{
			name: "scheme makes domains differ",
			from: "a.com/x", to: "https://a.com/y",
			want: RedirectRule{FromPath: "x", ToPath: "https://a.com/y", StatusCode: "302"},
		},
		{
			name: "domain comparison is case sensitive",
			from: "a.com/x", to: "A.com/y",
			want: RedirectRule{FromPath: "x", ToPath: "A.com/y", StatusCode: "302"},
		},
		{
			name: "domain root target",
			from: "/x", to: "https://b.com/",
			want: RedirectRule{FromPath: "x", ToPath: "https://b.com", StatusCode: "302"},
		},
		{
			name: "root source",
			from: "/", to: "/home",
			want: RedirectRule{FromPath: "/", ToPath: "home", StatusCode: "302"},
		},
		{
			name: "domain root source",
			from: "a.com/", to: "/home",
			want: RedirectRule{FromPath: "/", ToPath: "home", StatusCode: "302"},
		},
		{
			name: "empty source",
			from: "", to: "/home",
			want: RedirectRule{FromPath: "/", ToPath: "home", StatusCode: "302"},
		},
		{
			name: "only one slash trimmed per side",
			from: "//x//", to: "//y//",
			want: RedirectRule{FromPath: "/x/", ToPath: "/y/", StatusCode: "302"},
		},
		{
			name: "interior slashes kept",
			from: "/a/b/c/", to: "/d/e/",
			want: RedirectRule{FromPath: "a/b/c", ToPath: "d/e", StatusCode: "302"},
		},
		{
			name: "empty target",
			from: "/x", to: "",
			want: RedirectRule{FromPath: "x", ToPath: "", StatusCode: "302"},
		},
		{
			name: "single label host is a path",
			from: "/x", to: "https://localhost/y",
			want: RedirectRule{FromPath: "x", ToPath: "https://localhost/y", StatusCode: "302"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.from, tt.to, DefaultStatusCode)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize(%q, %q) mismatch (-want +got):\n%s", tt.from, tt.to, diff)
			}
		})
	}
}

func TestFromFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   RedirectRule
		ok     bool
	}{
		{"no fields", nil, RedirectRule{}, false},
		{"one field", []string{"/x"}, RedirectRule{}, false},
		{"default status", []string{"/x", "/y"}, RedirectRule{FromPath: "x", ToPath: "y", StatusCode: "302"}, true},
		{"explicit status", []string{"/x", "/y", "301"}, RedirectRule{FromPath: "x", ToPath: "y", StatusCode: "301"}, true},
		{"status not validated", []string{"/x", "/y", "gone"}, RedirectRule{FromPath: "x", ToPath: "y", StatusCode: "gone"}, true},
		{"empty status kept", []string{"/x", "/y", ""}, RedirectRule{FromPath: "x", ToPath: "y", StatusCode: ""}, true},
		{"extra fields ignored", []string{"/x", "/y", "301", "note"}, RedirectRule{FromPath: "x", ToPath: "y", StatusCode: "301"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFields(tt.fields, DefaultStatusCode)
			if ok != tt.ok {
				t.Fatalf("FromFields ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromFields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// genHost generates a host with two or three letter labels.
func genHost() gopter.Gen {
	label := gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 })
	return gen.SliceOfN(3, label).Map(func(labels []string) string {
		return strings.Join(labels, ".")
	})
}

// genSegment generates a non-empty path segment without slashes.
func genSegment() gopter.Gen {
	return gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 })
}

func TestDomainInheritance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("relative target on a domain source stays relative", prop.ForAll(
		func(host, from, to string) bool {
			rule := Normalize(host+"/"+from, "/"+to, DefaultStatusCode)
			return rule.FromPath == from && rule.ToPath == to
		},
		genHost(), genSegment(), genSegment(),
	))

	properties.Property("target on another domain keeps its domain", prop.ForAll(
		func(fromHost, toHost, from, to string) bool {
			rule := Normalize(fromHost+"/"+from, "https://"+toHost+"/"+to, DefaultStatusCode)
			return rule.ToPath == "https://"+toHost+"/"+to
		},
		genHost(), genHost(), genSegment(), genSegment(),
	))

	properties.TestingRun(t)
}

func TestSourcePathNeverEmpty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("FromPath is never empty", prop.ForAll(
		func(from, to string) bool {
			return Normalize(from, to, DefaultStatusCode).FromPath != ""
		},
		gen.OneGenOf(gen.AnyString(), gen.OneConstOf("", "/", "//", "a.com/", "https://a.com/")),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
