// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory. It checks:
//   - JSON structure and the engine's configuration rules
//   - Path geometry: the spiral must fit the grid with no overlapping tiles
//   - Hazard budget: lucky and trap tiles must fit the interior of the path
//   - Player identities: exactly one male and one female player
//   - Task card message titles
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissdom/couples-ludo/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks, the engine's rule validation, and spiral
// path geometry analysis.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Engine rules cover names, dimensions, hazard budget, penalties,
	// player identities, and message titles.
	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Path geometry - the spiral must place every step inside the grid
	// without visiting any cell twice.
	geometryResult := validatePathGeometry(&config)
	result.Errors = append(result.Errors, geometryResult.Errors...)
	if !geometryResult.Valid {
		result.Valid = false
		return result
	}

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.GridSize, config.GridSize))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Path: %d tiles", config.PathLength))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Hazards: %d lucky, %d trap", config.LuckyTiles, config.TrapTiles))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Reject penalty: %d-%d steps", config.MinRejectPenalty, config.MaxRejectPenalty))
	for _, p := range config.Players {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Player: %s (%s)", p.Name, p.Role))
	}

	return result
}

// validatePathGeometry generates the spiral for the config and checks that
// every step lands inside the grid on a previously unused cell.
func validatePathGeometry(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	path := engine.GenerateSpiralPath(config)

	if len(path) != config.PathLength {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Path geometry failure: expected %d steps, spiral produced %d", config.PathLength, len(path)))
		return result
	}

	seen := make(map[engine.PathCoord]int, len(path))
	for step, coord := range path {
		if coord.Row < 0 || coord.Row >= config.GridSize || coord.Col < 0 || coord.Col >= config.GridSize {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Step %d leaves the grid at (%d,%d)", step, coord.Row, coord.Col))
			continue
		}
		if prev, dup := seen[coord]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Step %d revisits (%d,%d) already used by step %d", step, coord.Row, coord.Col, prev))
			continue
		}
		seen[coord] = step
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Geometry: %d-step spiral fits the %dx%d grid", len(path), config.GridSize, config.GridSize))
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
