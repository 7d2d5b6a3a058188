package main

import (
	"fmt"
	"math/rand"
	"path"

	"github.com/gomlx/codeorg"
	mldata "github.com/gomlx/gomlx/ml/data"
	"github.com/janpfeifer/must"
)

// Block types of a toy maze curriculum, and the editor colors the generator
// sprinkles over them (stripped again during canonicalization).
var (
	commandBlocks = []string{"maze_moveForward", "maze_turnLeft", "maze_turnRight"}
	editorColors  = []string{"", "#1E90FF", "#FFD700", "#32CD32"}
)

// generateCorpus writes a synthetic problem corpus under
// `{baseDir}/{corpus}/problem-{problem}`: sources with counts following a
// rough Zipf curve, plus train/val/test/all splits of canonical program
// strings sampled proportionally to those counts.
func generateCorpus(baseDir string, corpus codeorg.Corpus, problem int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	dir := path.Join(mldata.ReplaceTildeInDir(baseDir), string(corpus), fmt.Sprintf("problem-%d", problem))
	store := codeorg.NewDirStore(dir)

	const numSources = 400
	sources := make(map[int]*codeorg.AST, numSources)
	counts := make(map[int]int, numSources)
	var programs []string
	for id := 0; id < numSources; id++ {
		ast := randomProgram(rng, 1+rng.Intn(10))
		sources[id] = ast
		// Counts roughly follow count = 600/(id+1), plus noise: a few very
		// popular programs, then a long tail of near-single occurrences.
		count := 600/(id+1) + rng.Intn(2)
		counts[id] = count
		for ii := 0; ii < count; ii++ {
			programs = append(programs, ast.Canonical())
		}
	}
	rng.Shuffle(len(programs), func(i, j int) {
		programs[i], programs[j] = programs[j], programs[i]
	})

	must.M(store.SaveSources(problem, sources))
	must.M(store.SaveCounts(problem, counts))

	// 80/10/10 split, plus "all".
	n := len(programs)
	splits := map[codeorg.Split][]string{
		codeorg.Train: programs[:n*8/10],
		codeorg.Valid: programs[n*8/10 : n*9/10],
		codeorg.Test:  programs[n*9/10:],
		codeorg.All:   programs,
	}
	for split, splitPrograms := range splits {
		must.M(store.SaveSplit(split, &codeorg.RawSplit{Programs: splitPrograms}))
	}
	fmt.Printf("Generated synthetic corpus with %d sources (%d program occurrences) in %s\n",
		numSources, n, dir)
}

// randomProgram builds a program AST with numCommands command blocks, some
// nested under repeat blocks, with random editor colors.
func randomProgram(rng *rand.Rand, numCommands int) *codeorg.AST {
	root := &codeorg.AST{Type: "program", Color: pick(rng, editorColors)}
	parent := root
	for ii := 0; ii < numCommands; ii++ {
		if rng.Intn(5) == 0 {
			repeat := &codeorg.AST{Type: "maze_repeat", Color: pick(rng, editorColors)}
			root.Children = append(root.Children, repeat)
			parent = repeat
		}
		parent.Children = append(parent.Children, &codeorg.AST{
			Type:  pick(rng, commandBlocks),
			Color: pick(rng, editorColors),
		})
	}
	return root
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}
