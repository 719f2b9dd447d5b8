package engine

import "math/rand"

// GenerateSpiralPath produces the tile coordinates for a configuration: a
// clockwise inward spiral over a GridSize x GridSize grid, truncated to
// PathLength entries. The layout is purely geometric and deterministic for a
// given configuration; rule logic only depends on its length.
func GenerateSpiralPath(config *GameConfig) []PathCoord {
	size := config.GridSize
	coords := make([]PathCoord, 0, config.PathLength)

	top, bottom := 0, size-1
	left, right := 0, size-1

	for len(coords) < config.PathLength && top <= bottom && left <= right {
		for c := left; c <= right && len(coords) < config.PathLength; c++ {
			coords = append(coords, PathCoord{Row: top, Col: c})
		}
		top++
		for r := top; r <= bottom && len(coords) < config.PathLength; r++ {
			coords = append(coords, PathCoord{Row: r, Col: right})
		}
		right--
		for c := right; c >= left && top <= bottom && len(coords) < config.PathLength; c-- {
			coords = append(coords, PathCoord{Row: bottom, Col: c})
		}
		bottom--
		for r := bottom; r >= top && left <= right && len(coords) < config.PathLength; r-- {
			coords = append(coords, PathCoord{Row: r, Col: left})
		}
		left++
	}

	return coords
}

// GenerateBoardMap produces a fresh tile-type map for a configuration: all
// blank except LuckyTiles lucky and TrapTiles trap tiles placed at distinct
// random interior indices. Index 0 and the final index are always blank.
func GenerateBoardMap(config *GameConfig, rng *rand.Rand) []TileType {
	board := make([]TileType, config.PathLength)
	for i := range board {
		board[i] = TileBlank
	}

	// Interior indices 1..finalStep-1, shuffled
	interior := make([]int, 0, config.PathLength-2)
	for i := 1; i < config.FinalStep(); i++ {
		interior = append(interior, i)
	}
	rng.Shuffle(len(interior), func(i, j int) {
		interior[i], interior[j] = interior[j], interior[i]
	})

	for i := 0; i < config.LuckyTiles && i < len(interior); i++ {
		board[interior[i]] = TileLucky
	}
	for i := 0; i < config.TrapTiles && config.LuckyTiles+i < len(interior); i++ {
		board[interior[config.LuckyTiles+i]] = TileTrap
	}

	return board
}

// CountTileType counts the tiles of a specific type on a board
func CountTileType(board []TileType, tile TileType) int {
	count := 0
	for _, t := range board {
		if t == tile {
			count++
		}
	}
	return count
}
