package location

import (
	"strings"

	"github.com/grafana/sarif-importer/pkg/issue"
	"github.com/grafana/sarif-importer/pkg/sarif"
)

// DefaultSourceRoots are used when no source roots are configured.
var DefaultSourceRoots = []string{"src/"}

// Primary maps the first location of a result.
func Primary(r sarif.Result, roots []string) *issue.Location {
	if len(r.Locations) == 0 {
		return nil
	}
	l := Map(r.Locations[0], message(r), roots)
	return &l
}

// Secondary maps every location after the first one. Structurally equal
// locations are reported once, in the order they first appear.
func Secondary(r sarif.Result, roots []string) []issue.Location {
	if len(r.Locations) < 2 {
		return nil
	}

	msg := message(r)
	out := make([]issue.Location, 0, len(r.Locations)-1)
	for _, l := range r.Locations[1:] {
		mapped := Map(l, msg, roots)
		if !contains(out, mapped) {
			out = append(out, mapped)
		}
	}
	return out
}

// Map converts a SARIF location into an issue location with a corrected
// file path.
func Map(l sarif.Location, msg string, roots []string) issue.Location {
	out := issue.Location{
		Message:  msg,
		FilePath: CorrectPath(l.URI, roots),
	}
	if l.Region != nil {
		out.TextRange = &issue.TextRange{
			StartLine:   l.Region.StartLine,
			EndLine:     l.Region.StartLine,
			StartColumn: copyInt(l.Region.StartColumn),
			EndColumn:   copyInt(l.Region.EndColumn),
		}
	}
	return out
}

// CorrectPath strips a module directory that a build injected in front of
// a source root, e.g. "module-a/src/main/Foo.java" becomes
// "src/main/Foo.java" for the root "src/". The first root whose segment
// occurs anywhere in uri decides, later roots are not tried. The prefix is
// only stripped at a "/segment" boundary.
func CorrectPath(uri string, roots []string) string {
	if len(roots) == 0 {
		roots = DefaultSourceRoots
	}
	for _, root := range roots {
		segment := firstSegment(root)
		if segment == "" || !strings.Contains(uri, segment) {
			continue
		}
		if strings.HasPrefix(uri, segment) {
			return uri
		}
		if i := strings.Index(uri, "/"+segment); i >= 0 {
			return uri[i+1:]
		}
		return uri
	}
	return uri
}

func firstSegment(root string) string {
	root = strings.TrimLeft(root, "/")
	if i := strings.Index(root, "/"); i >= 0 {
		root = root[:i]
	}
	if root == "" {
		return ""
	}
	return root + "/"
}

func message(r sarif.Result) string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

func contains(locations []issue.Location, l issue.Location) bool {
	for _, o := range locations {
		if o.Equal(l) {
			return true
		}
	}
	return false
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
