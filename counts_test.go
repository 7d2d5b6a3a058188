package codeorg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forwardAST(color string) *AST {
	return &AST{
		Type:  "program",
		Color: color,
		Children: []*AST{
			{Type: "maze_moveForward", Color: color},
			{Type: "maze_turnLeft"},
		},
	}
}

func TestASTCanonical(t *testing.T) {
	colored := forwardAST("#1E90FF")
	plain := forwardAST("")
	assert.Equal(t, "program maze_moveForward maze_turnLeft", colored.Canonical())
	assert.Equal(t, plain.Canonical(), colored.Canonical(),
		"styling must not affect the canonical form")

	colored.RemoveColors()
	assert.Empty(t, colored.Color)
	assert.Empty(t, colored.Children[0].Color)
}

func TestAggregateCounts(t *testing.T) {
	// Ids 0 and 2 canonicalize to the same program (one colored, one not),
	// their counts must sum.
	sources := map[int]*AST{
		0: forwardAST("#FFD700"),
		1: {Type: "program", Children: []*AST{{Type: "maze_turnRight"}}},
		2: forwardAST(""),
		3: {Type: "program", Children: []*AST{{Type: "maze_repeat"}}},
	}
	counts := map[int]int{0: 5, 1: 2, 2: 7} // id 3 has no observed count

	cm := AggregateCounts(sources, counts)
	require.Equal(t, 3, cm.Len())

	count, found := cm.Count("program maze_moveForward maze_turnLeft")
	require.True(t, found)
	assert.Equal(t, 12, count)

	count, found = cm.Count("program maze_turnRight")
	require.True(t, found)
	assert.Equal(t, 2, count)

	// A source with no observed count is still registered, at zero.
	count, found = cm.Count("program maze_repeat")
	require.True(t, found)
	assert.Equal(t, 0, count)

	// Key order follows ascending ids, independent of map iteration order.
	assert.Equal(t, []string{
		"program maze_moveForward maze_turnLeft",
		"program maze_turnRight",
		"program maze_repeat",
	}, cm.Keys())
}

func TestAggregateCountsDeterminism(t *testing.T) {
	sources := make(map[int]*AST)
	counts := make(map[int]int)
	for id := 0; id < 100; id++ {
		sources[id] = &AST{Type: "program", Children: []*AST{
			{Type: commandForID(id)},
		}}
		counts[id] = id % 7
	}
	first := AggregateCounts(sources, counts)
	for run := 0; run < 5; run++ {
		again := AggregateCounts(sources, counts)
		require.Equal(t, first.Keys(), again.Keys())
		for _, key := range first.Keys() {
			c0, _ := first.Count(key)
			c1, _ := again.Count(key)
			require.Equal(t, c0, c1)
		}
	}
}

func commandForID(id int) string {
	blocks := []string{"maze_moveForward", "maze_turnLeft", "maze_turnRight", "maze_repeat"}
	return blocks[id%len(blocks)]
}
