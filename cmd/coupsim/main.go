package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/coupforbots/internal/bot"
	"github.com/lox/coupforbots/internal/game"
	"github.com/lox/coupforbots/internal/randutil"
	"github.com/lox/coupforbots/internal/server"
)

type CLI struct {
	Games       int           `default:"10" help:"Number of games to simulate"`
	Players     int           `default:"4" help:"Players per game (2-6)"`
	Honest      int           `default:"2" help:"Seats playing the honest strategy; the rest play random"`
	Seed        int64         `default:"0" help:"RNG seed (0 for time-based)"`
	Parallel    int           `default:"4" help:"Games run concurrently"`
	Window      time.Duration `default:"0" help:"Reaction window per action (0 resolves immediately)"`
	Config      string        `help:"Path to HCL config file" type:"path"`
	Transcripts string        `help:"Directory to write per-game history JSON" type:"path"`
	Verbose     bool          `short:"v" help:"Verbose logging"`
}

type gameResult struct {
	Winner    string
	WinnerBot string
	Turns     int
	Duration  time.Duration
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if cli.Players < game.MinPlayers || cli.Players > game.MaxPlayers {
		logger.Fatal("players must be between 2 and 6", "players", cli.Players)
	}
	if cli.Honest > cli.Players {
		cli.Honest = cli.Players
	}
	cfg := server.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = server.LoadConfig(cli.Config)
		if err != nil {
			logger.Fatal("failed to load config", "error", err)
		}
	}
	cfg.Game.ReactionWindowMs = int(cli.Window / time.Millisecond)

	if cli.Seed == 0 {
		cli.Seed = cfg.Game.Seed
	}
	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	if cli.Transcripts != "" {
		if err := os.MkdirAll(cli.Transcripts, 0o755); err != nil {
			logger.Fatal("failed to create transcript directory", "error", err)
		}
	}

	fmt.Printf("Simulating %d games: %d players (%d honest), seed %d\n",
		cli.Games, cli.Players, cli.Honest, cli.Seed)

	start := time.Now()
	results, err := runGames(cli, cfg, logger)
	if err != nil {
		logger.Fatal("simulation failed", "error", err)
	}
	printSummary(results, time.Since(start))
	ctx.Exit(0)
}

func runGames(cli CLI, cfg server.Config, logger *log.Logger) ([]gameResult, error) {
	service := server.NewGameService(server.NewMemoryStore(), cfg, logger)
	seeds := randutil.New(cli.Seed)

	var mu sync.Mutex
	results := make([]gameResult, 0, cli.Games)

	var eg errgroup.Group
	eg.SetLimit(cli.Parallel)
	for i := 0; i < cli.Games; i++ {
		gameSeed := seeds.Int63()
		eg.Go(func() error {
			res, err := playGame(cli, service, logger, gameSeed)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func playGame(cli CLI, service *server.GameService, logger *log.Logger, seed int64) (gameResult, error) {
	rng := randutil.New(seed)
	agents := make(map[string]bot.Agent, cli.Players)
	kinds := make(map[string]string, cli.Players)

	newAgent := func(seat int) bot.Agent {
		name := fmt.Sprintf("bot%d", seat+1)
		if seat < cli.Honest {
			return bot.NewHonestAgent(name)
		}
		return bot.NewRandomAgent(name, randutil.New(rng.Int63()))
	}

	host := newAgent(0)
	gameID, err := service.CreateGame("p1", host.Name(), game.Agent, rng.Int63(), nil)
	if err != nil {
		return gameResult{}, err
	}
	agents["p1"] = host
	kinds["p1"] = agentKind(host)

	for seat := 1; seat < cli.Players; seat++ {
		id := fmt.Sprintf("p%d", seat+1)
		a := newAgent(seat)
		if err := service.JoinGame(gameID, id, a.Name(), game.Agent); err != nil {
			return gameResult{}, err
		}
		agents[id] = a
		kinds[id] = agentKind(a)
	}
	if err := service.StartGame(gameID); err != nil {
		return gameResult{}, err
	}

	start := time.Now()
	final, err := bot.NewRunner(service, logger, agents).Run(gameID)
	if err != nil {
		return gameResult{}, err
	}

	if cli.Transcripts != "" {
		if err := writeTranscript(cli.Transcripts, gameID, final); err != nil {
			logger.Error("failed to write transcript", "game", gameID, "error", err)
		}
	}

	return gameResult{
		Winner:    final.Winner,
		WinnerBot: kinds[final.Winner],
		Turns:     final.TurnNumber,
		Duration:  time.Since(start),
	}, nil
}

func agentKind(a bot.Agent) string {
	switch a.(type) {
	case *bot.HonestAgent:
		return "honest"
	default:
		return "random"
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	numberStyle = lipgloss.NewStyle().Bold(true)
)

func printSummary(results []gameResult, elapsed time.Duration) {
	wins := map[string]int{}
	totalTurns := 0
	var totalDuration time.Duration
	for _, r := range results {
		wins[r.WinnerBot]++
		totalTurns += r.Turns
		totalDuration += r.Duration
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("=== SIMULATION RESULTS ==="))
	fmt.Printf("%s %s\n", labelStyle.Render("Games:"), numberStyle.Render(fmt.Sprintf("%d", len(results))))
	fmt.Printf("%s %s\n", labelStyle.Render("Elapsed:"), numberStyle.Render(elapsed.Round(time.Millisecond).String()))
	if len(results) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Avg turns:"),
			numberStyle.Render(fmt.Sprintf("%.1f", float64(totalTurns)/float64(len(results)))))
		fmt.Printf("%s %s\n", labelStyle.Render("Avg game:"),
			numberStyle.Render((totalDuration / time.Duration(len(results))).Round(time.Millisecond).String()))
	}
	for kind, n := range wins {
		pct := float64(n) / float64(len(results)) * 100
		fmt.Printf("%s %s\n", labelStyle.Render(kind+" wins:"),
			numberStyle.Render(fmt.Sprintf("%d (%.1f%%)", n, pct)))
	}
}

// writeTranscript dumps the final public state as JSON, via a temp file and
// rename so readers never observe a partial transcript.
func writeTranscript(dir, gameID string, final any) error {
	data, err := json.MarshalIndent(final, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, gameID+".json")
	tmp, err := os.CreateTemp(dir, gameID+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
