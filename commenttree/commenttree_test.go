package commenttree

import (
	"fmt"
	"testing"

	"tene-backend/models"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string {
	return &s
}

func comment(id string, parentID *string, body string) models.Comment {
	return models.Comment{
		ID:       id,
		NovelID:  "novel-1",
		AuthorID: "author-1",
		ParentID: parentID,
		Body:     body,
	}
}

func TestBuild_Empty(t *testing.T) {
	forest := Build(nil)

	assert.NotNil(t, forest)
	assert.Len(t, forest, 0)
}

func TestBuild_FlatList(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "first"),
		comment("c2", nil, "second"),
		comment("c3", nil, "third"),
	}

	forest := Build(input)

	assert.Len(t, forest, 3)
	assert.Equal(t, "c1", forest[0].ID)
	assert.Equal(t, "c2", forest[1].ID)
	assert.Equal(t, "c3", forest[2].ID)
	for _, node := range forest {
		assert.NotNil(t, node.Replies)
		assert.Len(t, node.Replies, 0)
	}
}

func TestBuild_ReplyLandsUnderItsParent(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "top"),
		comment("c2", ptr("c1"), "hello"),
	}

	forest := Build(input)

	assert.Len(t, forest, 1)
	assert.Equal(t, "c1", forest[0].ID)
	assert.Len(t, forest[0].Replies, 1)
	assert.Equal(t, "c2", forest[0].Replies[0].ID)
	assert.Equal(t, "hello", forest[0].Replies[0].Body)
}

func TestBuild_DeepNesting(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "root"),
		comment("c2", ptr("c1"), "depth 1"),
		comment("c3", ptr("c2"), "depth 2"),
		comment("c4", ptr("c3"), "depth 3"),
	}

	forest := Build(input)

	assert.Len(t, forest, 1)
	node := forest[0]
	for _, want := range []string{"c2", "c3", "c4"} {
		assert.Len(t, node.Replies, 1)
		node = node.Replies[0]
		assert.Equal(t, want, node.ID)
	}
	assert.Len(t, node.Replies, 0)
}

func TestBuild_SiblingOrderPreserved(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "top"),
		comment("r1", ptr("c1"), "reply one"),
		comment("r2", ptr("c1"), "reply two"),
		comment("r3", ptr("c1"), "reply three"),
	}

	forest := Build(input)

	assert.Len(t, forest, 1)
	replies := forest[0].Replies
	assert.Len(t, replies, 3)
	assert.Equal(t, "r1", replies[0].ID)
	assert.Equal(t, "r2", replies[1].ID)
	assert.Equal(t, "r3", replies[2].ID)
}

func TestBuild_ReplyBeforeParent(t *testing.T) {
	// The reply row can precede its parent in the input; the index pass
	// runs first so it still attaches.
	input := []models.Comment{
		comment("c2", ptr("c1"), "reply"),
		comment("c1", nil, "top"),
	}

	forest := Build(input)

	assert.Len(t, forest, 1)
	assert.Equal(t, "c1", forest[0].ID)
	assert.Len(t, forest[0].Replies, 1)
	assert.Equal(t, "c2", forest[0].Replies[0].ID)
}

func TestBuild_OrphanDroppedWithSubtree(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "top"),
		comment("c2", ptr("missing"), "orphan"),
		comment("c3", ptr("c2"), "orphan child"),
	}

	forest := Build(input)

	assert.Len(t, forest, 1)
	assert.Equal(t, "c1", forest[0].ID)
	assert.Len(t, forest[0].Replies, 0)
	assert.Equal(t, 1, Size(forest))
}

func TestBuild_SelfParentDropped(t *testing.T) {
	input := []models.Comment{
		comment("c1", ptr("c1"), "self"),
	}

	forest := Build(input)

	assert.Len(t, forest, 0)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "top"),
		comment("c2", ptr("c1"), "reply"),
	}

	Build(input)

	assert.Nil(t, input[0].ParentID)
	assert.Equal(t, "c1", *input[1].ParentID)
	assert.Equal(t, "top", input[0].Body)
}

func TestBuild_EveryCommentReachableOnce(t *testing.T) {
	// 10 top-level comments, each with 3 replies, each reply with 2
	// replies of its own. Every input comment must appear exactly once.
	var input []models.Comment
	for i := 0; i < 10; i++ {
		top := fmt.Sprintf("t%d", i)
		input = append(input, comment(top, nil, "top"))
		for j := 0; j < 3; j++ {
			mid := fmt.Sprintf("t%d-r%d", i, j)
			input = append(input, comment(mid, ptr(top), "reply"))
			for k := 0; k < 2; k++ {
				leaf := fmt.Sprintf("t%d-r%d-l%d", i, j, k)
				input = append(input, comment(leaf, ptr(mid), "leaf"))
			}
		}
	}

	forest := Build(input)

	assert.Len(t, forest, 10)
	assert.Equal(t, len(input), Size(forest))

	seen := map[string]int{}
	Walk(forest, func(n *Node) {
		seen[n.ID]++
	})
	assert.Len(t, seen, len(input))
	for id, count := range seen {
		assert.Equal(t, 1, count, "comment %s appeared %d times", id, count)
	}
}

func TestWalk_ParentsBeforeReplies(t *testing.T) {
	input := []models.Comment{
		comment("c1", nil, "top"),
		comment("c2", ptr("c1"), "reply"),
		comment("c3", ptr("c2"), "leaf"),
	}

	var order []string
	Walk(Build(input), func(n *Node) {
		order = append(order, n.ID)
	})

	assert.Equal(t, []string{"c1", "c2", "c3"}, order)
}
