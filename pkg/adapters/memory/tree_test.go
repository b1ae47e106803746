package memory_test

import (
	"strings"
	"testing"

	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Tree = (*memory.Tree)(nil)

func sampleTree(opts ...memory.TreeOption) (*memory.Tree, map[string]domain.NodeID) {
	tree := memory.NewTree(opts...)
	ids := map[string]domain.NodeID{}
	ids["root"] = tree.AddRoot("root")
	ids["game"] = tree.AppendItem(ids["root"], "Game")
	ids["pack"] = tree.AppendItem(ids["game"], "Pack")
	ids["other"] = tree.AppendItem(ids["root"], "Other")
	return tree, ids
}

func TestTree_Structure(t *testing.T) {
	tree, ids := sampleTree()

	assert.Equal(t, 4, tree.Count())
	assert.Equal(t, ids["root"], tree.Root())
	assert.Equal(t, []domain.NodeID{ids["game"], ids["other"]}, tree.Children(ids["root"]))
	assert.Equal(t, ids["game"], tree.Parent(ids["pack"]))
	assert.Equal(t, ids["pack"], tree.FindChild(ids["game"], "Pack"))
	assert.True(t, tree.FindChild(ids["game"], "Nope").IsZero())
	assert.True(t, tree.AppendItem("missing", "x").IsZero())
	assert.True(t, tree.HasChildren(ids["game"]))
	assert.False(t, tree.HasChildren(ids["pack"]))
	assert.False(t, tree.Contains(""))

	// Children returns a copy.
	c := tree.Children(ids["root"])
	c[0] = "x"
	assert.Equal(t, ids["game"], tree.Children(ids["root"])[0])
}

func TestTree_Delete(t *testing.T) {
	tree, ids := sampleTree()
	tree.SelectItem(ids["pack"])

	tree.Delete(ids["game"])
	assert.False(t, tree.Contains(ids["game"]))
	assert.False(t, tree.Contains(ids["pack"]))
	assert.True(t, tree.Selection().IsZero())
	assert.Equal(t, []domain.NodeID{ids["other"]}, tree.Children(ids["root"]))
	assert.Equal(t, 2, tree.Count())

	tree.AddRoot("fresh")
	assert.Equal(t, 1, tree.Count())
	assert.False(t, tree.Contains(ids["other"]))
}

func TestTree_ItemState(t *testing.T) {
	tree, ids := sampleTree()

	_, ok := tree.ItemState(ids["pack"])
	assert.False(t, ok)

	want := domain.CheckState{Base: domain.Checked, Overlay: domain.MouseOver}
	tree.SetItemState(ids["pack"], want)
	got, ok := tree.ItemState(ids["pack"])
	require.True(t, ok)
	assert.Equal(t, want, got)

	tree.ClearItemState(ids["pack"])
	_, ok = tree.ItemState(ids["pack"])
	assert.False(t, ok)
}

func TestTree_Collapse(t *testing.T) {
	tree, ids := sampleTree()
	tree.ExpandAll()
	tree.SelectItem(ids["pack"])

	tree.Collapse(ids["game"])
	assert.False(t, tree.IsExpanded(ids["game"]))
	assert.Equal(t, ids["game"], tree.Selection(), "selection moves out of the collapsed branch")

	tree.Expand(ids["pack"])
	assert.False(t, tree.IsExpanded(ids["pack"]), "leaves never expand")
}

func TestTree_Rows(t *testing.T) {
	t.Run("Visible Root", func(t *testing.T) {
		tree, ids := sampleTree()
		rows := tree.Rows()
		require.Len(t, rows, 3)
		assert.Equal(t, ids["root"], rows[0].ID)
		assert.Equal(t, 0, rows[0].Depth)
		assert.Equal(t, ids["game"], rows[1].ID)
		assert.Equal(t, 1, rows[1].Depth)
		assert.False(t, rows[1].Expanded)
	})

	t.Run("Hidden Root", func(t *testing.T) {
		tree, ids := sampleTree(memory.WithHiddenRoot())
		tree.ExpandAll()
		rows := tree.Rows()

		var got []string
		for _, r := range rows {
			got = append(got, strings.Repeat(" ", r.Depth)+r.Text)
		}
		assert.Equal(t, []string{"Game", " Pack", "Other"}, got)
		assert.Equal(t, ids["pack"], rows[1].ID)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, memory.NewTree().Rows())
	})
}

func TestTree_HitTest(t *testing.T) {
	tree, ids := sampleTree(memory.WithHiddenRoot())
	tree.ExpandAll()
	tree.SetItemState(ids["pack"], domain.CheckState{})

	// Row 1 is "  ▸ [ ] Pack": indent 0-1, button 2-3, icon 4-7, label 8-11.
	tests := []struct {
		name string
		p    domain.Point
		id   domain.NodeID
		want domain.HitFlags
	}{
		{"Above", domain.Point{X: 0, Y: -1}, "", domain.HitAbove},
		{"Below", domain.Point{X: 0, Y: 3}, "", domain.HitBelow},
		{"Left", domain.Point{X: -1, Y: 0}, "", domain.HitNowhere},
		{"Group Button", domain.Point{X: 0, Y: 0}, ids["game"], domain.HitOnButton},
		{"Group Label", domain.Point{X: 2, Y: 0}, ids["game"], domain.HitOnLabel},
		{"Indent", domain.Point{X: 1, Y: 1}, ids["pack"], domain.HitOnIndent},
		{"Leaf Button Column", domain.Point{X: 2, Y: 1}, ids["pack"], domain.HitOnIndent},
		{"Icon", domain.Point{X: 5, Y: 1}, ids["pack"], domain.HitOnStateIcon},
		{"Label", domain.Point{X: 8, Y: 1}, ids["pack"], domain.HitOnLabel},
		{"Label End", domain.Point{X: 11, Y: 1}, ids["pack"], domain.HitOnLabel},
		{"Right", domain.Point{X: 12, Y: 1}, ids["pack"], domain.HitOnRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, flags := tree.HitTest(tt.p)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.want, flags)
		})
	}
}

func TestTree_HitTest_WideRunes(t *testing.T) {
	tree := memory.NewTree(memory.WithHiddenRoot())
	root := tree.AddRoot("root")
	id := tree.AppendItem(root, "ゼルダ")

	// Three double-width runes take six cells after the two-cell button column.
	_, flags := tree.HitTest(domain.Point{X: 7, Y: 0})
	assert.Equal(t, domain.HitOnLabel, flags)
	got, flags := tree.HitTest(domain.Point{X: 8, Y: 0})
	assert.Equal(t, id, got)
	assert.Equal(t, domain.HitOnRight, flags)
}

func TestTree_PointOf(t *testing.T) {
	tree, ids := sampleTree(memory.WithHiddenRoot())
	tree.ExpandAll()
	tree.SetItemState(ids["pack"], domain.CheckState{})

	for _, part := range []memory.Part{memory.PartLabel, memory.PartIcon} {
		p, ok := tree.PointOf(ids["pack"], part)
		require.True(t, ok)
		got, _ := tree.HitTest(p)
		assert.Equal(t, ids["pack"], got)
	}

	p, ok := tree.PointOf(ids["game"], memory.PartButton)
	require.True(t, ok)
	_, flags := tree.HitTest(p)
	assert.True(t, flags.OnButton())

	_, ok = tree.PointOf(ids["pack"], memory.PartButton)
	assert.False(t, ok, "leaves have no button")
	_, ok = tree.PointOf(ids["game"], memory.PartIcon)
	assert.False(t, ok, "groups have no icon")

	tree.Collapse(ids["game"])
	_, ok = tree.PointOf(ids["pack"], memory.PartLabel)
	assert.False(t, ok, "hidden rows have no point")
}

func TestTree_SortChildren(t *testing.T) {
	tree, ids := sampleTree()
	tree.SortChildren(ids["root"], func(a, b domain.NodeID) int {
		return strings.Compare(tree.ItemText(a), tree.ItemText(b)) * -1
	})
	assert.Equal(t, []domain.NodeID{ids["other"], ids["game"]}, tree.Children(ids["root"]))
}
