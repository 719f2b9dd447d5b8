// Package config provides configuration management for the Couples Ludo game.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation and verification
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Board geometry (grid size and spiral path length)
//   - Hazard counts (lucky and trap tiles)
//   - The reject penalty range
//   - The two player identities (name, color, role)
//   - Task card message templates
//
// Available Configurations:
//
// The package ships with two boards:
//   - classic: the 7x7 spiral with 49 tiles
//   - long_trail: a larger 9x9 spiral for longer games
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("classic")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// All configurations are validated for:
//   - Grid and path bounds (the path must fit the grid)
//   - Hazard counts that fit between the start and finish tiles
//   - A sane reject penalty range
//   - Exactly one male and one female player
//   - Required message templates
package config
