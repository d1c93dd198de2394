package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meikuraledutech/skilltree"
	"github.com/meikuraledutech/skilltree/file"
	"github.com/meikuraledutech/skilltree/internal/logging"
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "skilltree-example")
	if err != nil {
		log.Fatalf("temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	// Every mutation is committed to this file.
	store := file.New(filepath.Join(dir, file.DefaultKey+".json"))
	engine := skilltree.Open(ctx,
		skilltree.WithStore(store),
		skilltree.WithLogger(logging.New(slog.LevelDebug)),
	)

	// ── Build a small tree ────────────────────────────────────────────
	basics := engine.AddNode(skilltree.NodeData{
		Name:      "Basics",
		SkillType: skilltree.LabelStart,
	}, skilltree.TypeStart, skilltree.Position{X: 0, Y: 0})

	fire := engine.AddNode(skilltree.NodeData{
		Name:        "Fire",
		Description: "Small flames",
		SkillType:   skilltree.LabelRegular,
	}, skilltree.TypeRegular, skilltree.Position{X: -100, Y: 120})

	ice := engine.AddNode(skilltree.NodeData{
		Name:      "Ice",
		SkillType: skilltree.LabelRegular,
	}, skilltree.TypeRegular, skilltree.Position{X: 100, Y: 120})

	// Capstone created the way the canvas does it: drag, drop, then form.
	drag := skilltree.NewDragSession()
	drag.Start("output")
	drop, _ := drag.Drop(skilltree.Position{X: 0, Y: 240}, "")
	cost := 3
	storm := engine.AddNodeFromDrop(*drop, skilltree.NodeData{Name: "Storm", Cost: &cost})
	drag.CancelPendingDrop()

	for _, pair := range [][2]string{{basics, fire}, {basics, ice}, {fire, storm}, {ice, storm}} {
		if err := engine.AddEdge(pair[0], pair[1]); err != nil {
			log.Fatalf("add edge: %v", err)
		}
	}

	// ── Cycles are rejected ───────────────────────────────────────────
	err = engine.AddEdge(storm, basics)
	fmt.Printf("storm -> basics: %+v\n", skilltree.ResultOf(err))

	// ── Unlock in prerequisite order ──────────────────────────────────
	fmt.Printf("unlock storm:  %+v\n", skilltree.ResultOf(engine.UnlockNode(storm)))
	for _, id := range []string{basics, fire, ice, storm} {
		if err := engine.UnlockNode(id); err != nil {
			log.Fatalf("unlock: %v", err)
		}
	}
	fmt.Printf("unlocked: %d of %d\n", len(engine.UnlockedNodes()), len(engine.Nodes()))

	// ── Locking a prerequisite locks its dependents ───────────────────
	engine.LockNode(fire)
	fmt.Printf("after locking fire, unlocked: %d\n", len(engine.UnlockedNodes()))

	// ── Reload from disk ──────────────────────────────────────────────
	reloaded := skilltree.Open(ctx, skilltree.WithStore(store))
	fmt.Println("\nreloaded snapshot:")
	printJSON(reloaded.Snapshot())
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
