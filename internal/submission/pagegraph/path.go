package pagegraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NoApplication marks a path that addresses a submission-level page.
const NoApplication = -1

var (
	ErrMalformedPath = errors.New("malformed page path")
	ErrUnknownPage   = errors.New("unknown page")
)

// PagePath is the canonical page identity: "{pageId}", "{pageId}/{index}",
// "{pageId}/{qualifier}" or "{pageId}/{qualifier}/{index}".
type PagePath struct {
	Page             PageID
	ApplicationIndex int
}

// At builds a path for page at applicationIndex (ignored for submission pages).
func At(page PageID, applicationIndex int) PagePath {
	if n, ok := nodes[page]; ok && n.Scope == ScopeSubmission {
		applicationIndex = NoApplication
	}
	return PagePath{Page: page, ApplicationIndex: applicationIndex}
}

// ParsePagePath parses a page path or URL path. A trailing integer segment is
// the application index; the remaining one or two segments name the page and
// its qualifier.
func ParsePagePath(raw string) (PagePath, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "/")
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return PagePath{}, fmt.Errorf("%w: empty", ErrMalformedPath)
	}
	segs := strings.Split(raw, "/")

	index := NoApplication
	if n, err := strconv.Atoi(segs[len(segs)-1]); err == nil {
		if n < 0 {
			return PagePath{}, fmt.Errorf("%w: negative index in %q", ErrMalformedPath, raw)
		}
		index = n
		segs = segs[:len(segs)-1]
	}
	if len(segs) == 0 || len(segs) > 2 {
		return PagePath{}, fmt.Errorf("%w: %q", ErrMalformedPath, raw)
	}
	for _, s := range segs {
		if s == "" {
			return PagePath{}, fmt.Errorf("%w: %q", ErrMalformedPath, raw)
		}
	}

	id := PageID(strings.Join(segs, "/"))
	node, ok := nodes[id]
	if !ok {
		return PagePath{}, fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
	switch {
	case node.Scope == ScopeApplication && index == NoApplication:
		return PagePath{}, fmt.Errorf("%w: %q needs an application index", ErrMalformedPath, raw)
	case node.Scope == ScopeSubmission && index != NoApplication:
		return PagePath{}, fmt.Errorf("%w: %q takes no application index", ErrMalformedPath, raw)
	}
	return PagePath{Page: id, ApplicationIndex: index}, nil
}

// Node returns the table row for the path's page.
func (p PagePath) Node() *Node {
	return nodes[p.Page]
}

func (p PagePath) HasApplication() bool {
	return p.ApplicationIndex != NoApplication
}

func (p PagePath) String() string {
	if p.ApplicationIndex == NoApplication {
		return string(p.Page)
	}
	return string(p.Page) + "/" + strconv.Itoa(p.ApplicationIndex)
}

// URL is the path as served by the router.
func (p PagePath) URL() string {
	return "/" + p.String()
}
