package service

import "github.com/inkwell/internal/db"

// CommentNode 表示评论树中的一个节点，Replies 只有一层。
type CommentNode struct {
	db.Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentTree groups a flat, chronologically sorted comment list into
// top-level nodes with their direct replies attached. The input order is
// preserved as-is for both levels; the builder never re-sorts.
//
// A reply whose parent is absent from the input set is dropped. That is
// deliberate: scoped queries (a single post's comments) can legitimately
// exclude a parent that exists elsewhere, and rendering such a reply without
// its thread would be misleading.
func BuildCommentTree(comments []db.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{
			Comment: comments[i],
			Replies: []*CommentNode{},
		}
	}

	topLevel := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID]
		if parentID := comments[i].ParentID; parentID != nil {
			parent, ok := nodes[*parentID]
			if !ok {
				continue
			}
			parent.Replies = append(parent.Replies, node)
			continue
		}
		topLevel = append(topLevel, node)
	}

	return topLevel
}
