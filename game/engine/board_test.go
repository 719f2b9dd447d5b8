package engine

import (
	"math/rand"
	"testing"
)

func TestGenerateSpiralPathLength(t *testing.T) {
	config := DefaultGameConfig()
	path := GenerateSpiralPath(config)

	if len(path) != config.PathLength {
		t.Fatalf("Expected %d coords, got %d", config.PathLength, len(path))
	}
}

func TestGenerateSpiralPathCoordsUniqueAndInBounds(t *testing.T) {
	config := DefaultGameConfig()
	path := GenerateSpiralPath(config)

	seen := make(map[PathCoord]bool)
	for i, coord := range path {
		if coord.Row < 0 || coord.Row >= config.GridSize || coord.Col < 0 || coord.Col >= config.GridSize {
			t.Errorf("Coord %d out of bounds: %+v", i, coord)
		}
		if seen[coord] {
			t.Errorf("Duplicate coord at index %d: %+v", i, coord)
		}
		seen[coord] = true
	}
}

func TestGenerateSpiralPathAdjacency(t *testing.T) {
	config := DefaultGameConfig()
	path := GenerateSpiralPath(config)

	for i := 1; i < len(path); i++ {
		dr := path[i].Row - path[i-1].Row
		dc := path[i].Col - path[i-1].Col
		if dr < 0 {
			dr = -dr
		}
		if dc < 0 {
			dc = -dc
		}
		if dr+dc != 1 {
			t.Errorf("Coords %d and %d are not adjacent: %+v -> %+v", i-1, i, path[i-1], path[i])
		}
	}
}

func TestGenerateSpiralPathDeterministic(t *testing.T) {
	config := DefaultGameConfig()
	first := GenerateSpiralPath(config)
	second := GenerateSpiralPath(config)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Path generation is not deterministic at index %d", i)
		}
	}
}

func TestGenerateBoardMapCounts(t *testing.T) {
	config := DefaultGameConfig()
	rng := rand.New(rand.NewSource(1))

	board := GenerateBoardMap(config, rng)

	if len(board) != config.PathLength {
		t.Fatalf("Expected board length %d, got %d", config.PathLength, len(board))
	}
	if got := CountTileType(board, TileLucky); got != config.LuckyTiles {
		t.Errorf("Expected %d lucky tiles, got %d", config.LuckyTiles, got)
	}
	if got := CountTileType(board, TileTrap); got != config.TrapTiles {
		t.Errorf("Expected %d trap tiles, got %d", config.TrapTiles, got)
	}
	expectedBlank := config.PathLength - config.LuckyTiles - config.TrapTiles
	if got := CountTileType(board, TileBlank); got != expectedBlank {
		t.Errorf("Expected %d blank tiles, got %d", expectedBlank, got)
	}
}

func TestGenerateBoardMapStartAndFinishBlank(t *testing.T) {
	config := DefaultGameConfig()

	// Many seeds: start/finish must never carry a hazard
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		board := GenerateBoardMap(config, rng)

		if board[0] != TileBlank {
			t.Fatalf("Seed %d: start tile is %s, want blank", seed, board[0])
		}
		if board[len(board)-1] != TileBlank {
			t.Fatalf("Seed %d: final tile is %s, want blank", seed, board[len(board)-1])
		}
	}
}

func TestGenerateBoardMapHazardsVaryBySeed(t *testing.T) {
	config := DefaultGameConfig()

	first := GenerateBoardMap(config, rand.New(rand.NewSource(1)))
	second := GenerateBoardMap(config, rand.New(rand.NewSource(2)))

	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different seeds to produce different hazard layouts")
	}
}

func TestCountTileType(t *testing.T) {
	board := []TileType{TileBlank, TileLucky, TileTrap, TileLucky, TileBlank}

	if got := CountTileType(board, TileLucky); got != 2 {
		t.Errorf("Expected 2 lucky, got %d", got)
	}
	if got := CountTileType(board, TileTrap); got != 1 {
		t.Errorf("Expected 1 trap, got %d", got)
	}
	if got := CountTileType(board, TileBlank); got != 2 {
		t.Errorf("Expected 2 blank, got %d", got)
	}
}
