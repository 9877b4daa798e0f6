package sitemap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/temoto/robotstxt"
)

// RobotsFilter drops routes the site's own robots.txt disallows for every
// crawler. A nil filter or one without rules allows everything.
type RobotsFilter struct {
	group *robotstxt.Group
}

// LoadRobots reads a robots.txt file. A missing file is not an error.
func LoadRobots(path string) (*RobotsFilter, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &RobotsFilter{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	return ParseRobots(data)
}

func ParseRobots(data []byte) (*RobotsFilter, error) {
	robots, err := robotstxt.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return &RobotsFilter{group: robots.FindGroup("*")}, nil
}

func (f *RobotsFilter) Allowed(path string) bool {
	if f == nil || f.group == nil {
		return true
	}
	return f.group.Test("/" + path)
}

// Apply keeps allowed routes in order and returns how many were excluded.
func (f *RobotsFilter) Apply(routes []Route) ([]Route, int) {
	kept := make([]Route, 0, len(routes))
	for _, r := range routes {
		if f.Allowed(r.Path) {
			kept = append(kept, r)
		}
	}
	return kept, len(routes) - len(kept)
}
