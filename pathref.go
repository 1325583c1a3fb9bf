package formtree

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
// Container nodes use it to rebase child issues under their own key.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

// Root returns a PathRef at the document root ("/").
func Root() PathRef { return &pathRef{parts: nil} }

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}

// RebaseIssues rewrites the paths of child issues under base so that errors
// surfaced by a nested node point at their position in the enclosing value.
// Non-Issues errors are wrapped with CodeParseError at base.
func RebaseIssues(base PathRef, err error) Issues {
	if err == nil {
		return nil
	}
	root := base.Pointer()
	child, ok := AsIssues(err)
	if !ok {
		return IssuesFromErr(root, err)
	}
	var out Issues
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = root
		case root == "/":
			// already rooted
		case strings.HasPrefix(p, "/"):
			p = root + p
		default:
			p = root + "/" + p
		}
		out = AppendIssues(out, Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause, Params: it.Params})
	}
	return out
}
