package pkgmeta

import (
	"fmt"
	"regexp"
	"strings"
)

// Info is the typed view of the package.json fields the plugins read.
type Info struct {
	Name        string
	Version     string
	Description string
	Author      Person
	License     string
	Homepage    string
	Repository  string
}

// Person is an npm "people field": author or contributor.
type Person struct {
	Name  string
	Email string
	URL   string
}

// String renders the person in npm's shorthand form.
func (p Person) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Email != "" {
		fmt.Fprintf(&b, " <%s>", p.Email)
	}
	if p.URL != "" {
		fmt.Fprintf(&b, " (%s)", p.URL)
	}
	return strings.TrimSpace(b.String())
}

var personRe = regexp.MustCompile(`^([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?$`)

// ParsePerson accepts either the shorthand string
// "Name <email> (url)" or an object with name/email/url keys.
func ParsePerson(v any) Person {
	switch t := v.(type) {
	case string:
		m := personRe.FindStringSubmatch(strings.TrimSpace(t))
		if m == nil {
			return Person{Name: strings.TrimSpace(t)}
		}
		return Person{
			Name:  strings.TrimSpace(m[1]),
			Email: strings.TrimSpace(m[2]),
			URL:   strings.TrimSpace(m[3]),
		}
	case map[string]any:
		return Person{
			Name:  str(t["name"]),
			Email: str(t["email"]),
			URL:   str(t["url"]),
		}
	}
	return Person{}
}

// ParseInfo extracts Info from decoded package.json data. Unknown or
// mistyped fields are left empty. Homepage falls back to the repository
// URL.
func ParseInfo(m map[string]any) Info {
	info := Info{
		Name:        str(m["name"]),
		Version:     str(m["version"]),
		Description: str(m["description"]),
		Author:      ParsePerson(m["author"]),
		License:     license(m),
		Homepage:    str(m["homepage"]),
	}

	switch r := m["repository"].(type) {
	case string:
		info.Repository = RepoURL(r)
	case map[string]any:
		info.Repository = RepoURL(str(r["url"]))
	}
	if info.Homepage == "" {
		info.Homepage = info.Repository
	}
	return info
}

// RepoURL normalizes a repository reference to a browsable https URL:
// "user/repo" shorthand, "github:user/repo", git+https and git:// forms.
func RepoURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	ref = strings.TrimPrefix(ref, "git+")
	ref = strings.TrimPrefix(ref, "github:")
	switch {
	case strings.HasPrefix(ref, "git://"):
		ref = "https://" + strings.TrimPrefix(ref, "git://")
	case strings.HasPrefix(ref, "git@"):
		ref = "https://" + strings.Replace(strings.TrimPrefix(ref, "git@"), ":", "/", 1)
	case !strings.Contains(ref, "://"):
		ref = "https://github.com/" + ref
	}
	return strings.TrimSuffix(ref, ".git")
}

// license reads "license", or the first entry of the legacy "licenses"
// array.
func license(m map[string]any) string {
	switch l := m["license"].(type) {
	case string:
		return l
	case map[string]any:
		return str(l["type"])
	}
	if ls, ok := m["licenses"].([]any); ok && len(ls) > 0 {
		if first, ok := ls[0].(map[string]any); ok {
			return str(first["type"])
		}
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
