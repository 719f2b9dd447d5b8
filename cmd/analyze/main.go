// Command analyze prints quick, human-readable heuristics about game
// configurations and simulated races. The inspect command summarizes board
// dimensions, hazard counts, and penalty settings, and highlights suspicious
// values. The simulate command plays full games against the engine and
// reports race length and task card statistics.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/chrissdom/couples-ludo/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Inspect Couples Ludo configurations and simulate races",
		Commands: []*cli.Command{
			{
				Name:  "inspect",
				Usage: "Summarize every config in a directory and flag suspicious values",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config-dir",
						Value: "configs",
						Usage: "Directory containing game configurations",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return inspectConfigs(cmd.String("config-dir"), os.Stdout)
				},
			},
			{
				Name:  "simulate",
				Usage: "Play full games against the engine and report statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "",
						Usage: "Path to a config file (empty uses the built-in classic config)",
					},
					&cli.IntFlag{
						Name:  "games",
						Value: 1000,
						Usage: "Number of games to simulate",
					},
					&cli.IntFlag{
						Name:  "seed",
						Value: 1,
						Usage: "Random seed for reproducible runs",
					},
					&cli.FloatFlag{
						Name:  "reject-rate",
						Value: 0.2,
						Usage: "Probability that a drawn task card is rejected",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					config, err := loadConfig(cmd.String("config"))
					if err != nil {
						return err
					}
					stats, err := simulate(config, cmd.Int("games"), cmd.Int("seed"), cmd.Float("reject-rate"))
					if err != nil {
						return err
					}
					printStats(os.Stdout, config, stats)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads a config file, or returns the built-in default when the
// path is empty.
func loadConfig(path string) (*engine.GameConfig, error) {
	if path == "" {
		return engine.DefaultGameConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// inspectConfigs analyzes every .json file in dir and writes a summary
func inspectConfigs(dir string, out io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read config directory: %w", err)
	}

	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		found++
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", entry.Name())
		inspectConfig(filepath.Join(dir, entry.Name()), out)
	}

	if found == 0 {
		fmt.Fprintf(out, "No config files found in %s\n", dir)
	}
	return nil
}

func inspectConfig(path string, out io.Writer) {
	config, err := loadConfig(path)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(out, "Name: %s\n", config.Name)
	fmt.Fprintf(out, "Grid Size: %d x %d\n", config.GridSize, config.GridSize)
	fmt.Fprintf(out, "Path Length: %d tiles (final step %d)\n", config.PathLength, config.FinalStep())
	fmt.Fprintf(out, "Lucky Tiles: %d\n", config.LuckyTiles)
	fmt.Fprintf(out, "Trap Tiles: %d\n", config.TrapTiles)
	fmt.Fprintf(out, "Reject Penalty: %d-%d steps\n", config.MinRejectPenalty, config.MaxRejectPenalty)
	for _, p := range config.Players {
		fmt.Fprintf(out, "Player: %s (%s, %s)\n", p.Name, p.Role, p.Color)
	}

	// Hazards occupy interior tiles only; start and finish stay blank
	interior := config.PathLength - 2
	hazards := config.LuckyTiles + config.TrapTiles
	density := float64(hazards) / float64(interior)
	fmt.Fprintf(out, "Hazard Density: %d/%d interior tiles (%.0f%%)\n", hazards, interior, density*100)

	if density > 0.5 {
		fmt.Fprintf(out, "⚠️  WARNING: more than half of the interior tiles draw cards; races will crawl\n")
	}
	if config.MaxRejectPenalty >= engine.DieSides {
		fmt.Fprintf(out, "⚠️  WARNING: max reject penalty %d can exceed a die roll; rejecting may cost a full turn of progress\n", config.MaxRejectPenalty)
	}
	if density <= 0.5 && config.MaxRejectPenalty < engine.DieSides {
		fmt.Fprintf(out, "✅ Settings look balanced\n")
	}
}

// simStats aggregates outcomes across simulated games
type simStats struct {
	Games       int
	RollsTotal  int
	MinRolls    int
	MaxRolls    int
	WinsByID    [2]int
	CardsDrawn  map[engine.TaskEventType]int
	CardsReject int
}

// simulate plays full games, resolving every card with the given reject rate
func simulate(config *engine.GameConfig, games, seed int, rejectRate float64) (*simStats, error) {
	stats := &simStats{
		Games:      games,
		MinRolls:   -1,
		CardsDrawn: make(map[engine.TaskEventType]int),
	}

	rng := rand.New(rand.NewSource(int64(seed)))

	for i := 0; i < games; i++ {
		e, err := engine.NewEngineWithRand(config, rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			return nil, err
		}

		e.SelectTheme(0, "default_common")
		e.SelectTheme(1, "default_common")
		if !e.StartGame() {
			return nil, fmt.Errorf("failed to start simulated game %d", i)
		}

		rolls := 0
		for e.Winner() == nil {
			rolls++
			landing := e.MovePlayer(e.RollDie())
			event, win := e.CheckTile(landing)
			if win {
				break
			}
			if event != nil {
				stats.CardsDrawn[event.Type]++
				outcome := engine.OutcomeAccept
				if rng.Float64() < rejectRate {
					outcome = engine.OutcomeReject
					stats.CardsReject++
				}
				e.ResolveTask(event, outcome)
				continue
			}
			e.EndTurn()
		}

		winner := e.Winner()
		if winner != nil {
			stats.WinsByID[winner.ID]++
		}

		stats.RollsTotal += rolls
		if stats.MinRolls < 0 || rolls < stats.MinRolls {
			stats.MinRolls = rolls
		}
		if rolls > stats.MaxRolls {
			stats.MaxRolls = rolls
		}
	}

	return stats, nil
}

func printStats(out io.Writer, config *engine.GameConfig, stats *simStats) {
	fmt.Fprintf(out, "Simulated %d games on %q (%d-tile path)\n", stats.Games, config.Name, config.PathLength)
	if stats.Games == 0 {
		return
	}

	avg := float64(stats.RollsTotal) / float64(stats.Games)
	fmt.Fprintf(out, "Rolls per game: avg %.1f, min %d, max %d\n", avg, stats.MinRolls, stats.MaxRolls)

	for id, wins := range stats.WinsByID {
		name := fmt.Sprintf("player %d", id)
		if id < len(config.Players) {
			name = config.Players[id].Name
		}
		fmt.Fprintf(out, "Wins by %s: %d (%.0f%%)\n", name, wins, float64(wins)/float64(stats.Games)*100)
	}

	total := 0
	for _, n := range stats.CardsDrawn {
		total += n
	}
	fmt.Fprintf(out, "Task cards drawn: %d (%.2f per game)\n", total, float64(total)/float64(stats.Games))
	for _, kind := range []engine.TaskEventType{engine.EventCollision, engine.EventLucky, engine.EventTrap} {
		fmt.Fprintf(out, "  %s: %d\n", kind, stats.CardsDrawn[kind])
	}
	fmt.Fprintf(out, "Cards rejected: %d\n", stats.CardsReject)
}
