// Package commenttree builds a reply forest out of the flat comment rows
// the store returns. Every handler that renders a discussion goes through
// Build; there is no other threading implementation in the codebase.
package commenttree

import (
	"tene-backend/models"
)

// Node is a comment together with its direct replies. Replies is never nil
// so the JSON encoding is always an array.
type Node struct {
	models.Comment
	Replies []*Node `json:"replies"`
}

// Build threads a flat, ordered list of comments into a forest of top-level
// nodes. Input order is preserved: among top-level comments and among the
// replies of any parent, nodes appear in the order their rows appeared.
//
// A comment whose parent is not part of the input (typically because the
// parent landed on an earlier page) is dropped, together with its own
// subtree. That is the defined behavior for paginated fetches, not an
// error.
//
// Build never mutates its input and holds no state, so it is safe to call
// on every request.
func Build(comments []models.Comment) []*Node {
	index := make(map[string]*Node, len(comments))
	for i := range comments {
		index[comments[i].ID] = &Node{Comment: comments[i], Replies: []*Node{}}
	}

	roots := make([]*Node, 0, len(comments))
	for i := range comments {
		node := index[comments[i].ID]
		parentID := comments[i].ParentID
		if parentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[*parentID]
		if !ok || *parentID == comments[i].ID {
			// Orphaned reply: parent not in this page. Drop it.
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return roots
}

// Size reports the number of comments reachable in the forest. With a fully
// resolvable input it equals the input length; orphaned subtrees reduce it.
func Size(forest []*Node) int {
	n := 0
	for _, node := range forest {
		n += 1 + Size(node.Replies)
	}
	return n
}

// Walk visits every node in the forest depth-first, parents before replies.
func Walk(forest []*Node, fn func(*Node)) {
	for _, node := range forest {
		fn(node)
		Walk(node.Replies, fn)
	}
}
