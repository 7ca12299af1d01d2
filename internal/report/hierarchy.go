package report

import (
	"strings"

	"github.com/sadopc/worklens/internal/record"
)

// Hierarchy maps each parent label to the child labels collected under it,
// duplicates included. Parents keeps first-seen order.
type Hierarchy struct {
	Parents  []string
	Children map[string][]string
}

// Node is one rendered parent with its distinct children.
type Node struct {
	Label    string
	Children []string
}

// BuildHierarchy groups records by their label at parent and collects the
// label one level deeper for each record.
func BuildHierarchy(records []record.Record, parent record.Level) Hierarchy {
	h := Hierarchy{Children: make(map[string][]string)}
	for _, r := range records {
		p := r.Label(parent)
		if _, ok := h.Children[p]; !ok {
			h.Parents = append(h.Parents, p)
			h.Children[p] = []string{}
		}
		h.Children[p] = append(h.Children[p], r.Label(parent+1))
	}
	return h
}

// Nodes applies the display rules: children are deduplicated and the
// sentinel and blank labels are dropped. A parent whose children are all
// the sentinel stays as a childless leaf; any other parent left without
// children is omitted, as is a parent labelled with the sentinel.
func (h Hierarchy) Nodes() []Node {
	nodes := []Node{}
	for _, p := range h.Parents {
		if p == record.Sentinel {
			continue
		}
		raw := h.Children[p]

		children := []string{}
		seen := make(map[string]bool)
		allSentinel := len(raw) > 0
		for _, c := range raw {
			if c != record.Sentinel {
				allSentinel = false
			}
			if c == record.Sentinel || strings.TrimSpace(c) == "" || seen[c] {
				continue
			}
			seen[c] = true
			children = append(children, c)
		}

		if len(children) == 0 && !allSentinel {
			continue
		}
		nodes = append(nodes, Node{Label: p, Children: children})
	}
	return nodes
}

// Map returns the nodes keyed by parent label.
func (h Hierarchy) Map() map[string][]string {
	out := make(map[string][]string)
	for _, n := range h.Nodes() {
		out[n.Label] = n.Children
	}
	return out
}
