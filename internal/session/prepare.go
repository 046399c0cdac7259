package session

import (
	"fmt"
	"strings"

	"github.com/go-zookeeper/zk"
)

// Prepare clears any previous run's tree under prefix and recreates the
// parent chain as persistent nodes, so workers only ever create leaves.
// Runs before the timed region.
func (s *Session) Prepare(prefix string) error {
	if err := s.deleteRecursive(prefix); err != nil {
		return fmt.Errorf("clear %s: %w", prefix, err)
	}
	for _, p := range parents(prefix) {
		_, err := s.conn.Create(p, nil, 0, s.acl)
		if err != nil && err != zk.ErrNodeExists {
			return fmt.Errorf("create parent %s: %w", p, err)
		}
	}
	return nil
}

func (s *Session) deleteRecursive(path string) error {
	children, _, err := s.conn.Children(path)
	if err == zk.ErrNoNode {
		return nil
	}
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteRecursive(path + "/" + child); err != nil {
			return err
		}
	}
	if err := s.conn.Delete(path, -1); err != nil && err != zk.ErrNoNode {
		return err
	}
	return nil
}

// parents lists every ancestor of the node paths, shallowest first:
// "/a/b" -> ["/a", "/a/b"].
func parents(prefix string) []string {
	var out []string
	var b strings.Builder
	for _, part := range strings.Split(prefix, "/") {
		if part == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(part)
		out = append(out, b.String())
	}
	return out
}
