package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/huyle/flashdeck/internal/config"
	"github.com/huyle/flashdeck/internal/deck"
	apperrors "github.com/huyle/flashdeck/internal/errors"
	"github.com/huyle/flashdeck/internal/logger"
	"github.com/huyle/flashdeck/internal/progress"
	"github.com/huyle/flashdeck/internal/stats"
	"github.com/huyle/flashdeck/internal/storage"
	"github.com/huyle/flashdeck/internal/storage/sqlite"
)

const usage = `usage: flashdeck [flags] <command> [args]

commands:
  add <front> <back> <category>          create a card
  list                                   show all cards
  update <id> <front> <back> <category>  edit a card's text fields
  delete <id>                            remove a card
  learned <id>                           toggle a card's learned flag
  study <id> <correct|wrong> [seconds]   record a study attempt
  stats                                  deck statistics
  progress                               streak, daily and weekly progress
  goal [n]                               show or set the daily goal
  export [file]                          write a full backup (stdout default)
  import <file>                          restore from a backup
  reset                                  clear all study progress
`

func main() {
	dbPath := pflag.String("db", "", "database path (overrides DB_PATH)")
	logLevel := pflag.String("log-level", "", "log level (overrides LOG_LEVEL)")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg := config.Load()
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	ctx := context.Background()

	// Open the persistent store, falling back to memory-only when it is
	// unavailable so the app still works without persistence.
	var store storage.Store
	if s, err := sqlite.Open(cfg.DBPath); err != nil {
		log.Warn("persistent storage unavailable, running in-memory: %v", err)
		store = storage.NewMemoryStore()
	} else {
		store = s
	}
	defer store.Close()

	adapter := storage.NewAdapter(store, storage.WithVersion(cfg.AppVersion))
	if !adapter.IsAvailable(ctx) {
		log.Warn("store failed availability probe, switching to in-memory")
		store.Close()
		store = storage.NewMemoryStore()
		adapter = storage.NewAdapter(store, storage.WithVersion(cfg.AppVersion))
	}
	adapter.Migrate(ctx, cfg.AppVersion)

	cards := deck.NewStore(ctx, adapter)
	tracker := progress.NewTracker(ctx, adapter, progress.WithDefaultGoal(cfg.DailyGoal))

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(ctx, args, adapter, cards, tracker); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, adapter *storage.Adapter, cards *deck.Store, tracker *progress.Tracker) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "add":
		if len(rest) != 3 {
			return fmt.Errorf("add needs <front> <back> <category>")
		}
		card := cards.Add(ctx, rest[0], rest[1], rest[2])
		if card == nil {
			return apperrors.NewValidationError("card", "all three fields must be non-empty")
		}
		fmt.Printf("added card %d: %s / %s [%s]\n", card.ID, card.Front, card.Back, card.Category)

	case "list":
		for _, c := range cards.Cards() {
			mark := " "
			if c.Learned {
				mark = "x"
			}
			fmt.Printf("[%s] %d  %s -> %s  (%s)\n", mark, c.ID, c.Front, c.Back, c.Category)
		}

	case "update":
		if len(rest) != 4 {
			return fmt.Errorf("update needs <id> <front> <back> <category>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if cards.Get(id) == nil {
			return apperrors.NewNotFoundError("card", id)
		}
		cards.Update(ctx, id, rest[1], rest[2], rest[3])

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("delete needs <id>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if cards.Get(id) == nil {
			return apperrors.NewNotFoundError("card", id)
		}
		cards.Delete(ctx, id)

	case "learned":
		if len(rest) != 1 {
			return fmt.Errorf("learned needs <id>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if cards.Get(id) == nil {
			return apperrors.NewNotFoundError("card", id)
		}
		cards.ToggleLearned(ctx, id)

	case "study":
		if len(rest) < 2 || len(rest) > 3 {
			return fmt.Errorf("study needs <id> <correct|wrong> [seconds]")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		isCorrect := rest[1] == "correct"
		if !isCorrect && rest[1] != "wrong" {
			return fmt.Errorf("result must be correct or wrong, got %q", rest[1])
		}
		seconds := 0.0
		if len(rest) == 3 {
			if seconds, err = strconv.ParseFloat(rest[2], 64); err != nil {
				return fmt.Errorf("invalid seconds %q", rest[2])
			}
		}
		tracker.RecordStudy(ctx, id, isCorrect, seconds)
		cs := tracker.CardStats(id)
		fmt.Printf("recorded, card accuracy %d%% over %d attempts, streak %d\n", cs.Accuracy, cs.TotalAttempts, tracker.Streak())

	case "stats":
		s := stats.Compute(cards.Cards())
		byCategory := stats.ComputeByCategory(cards.Cards())
		fmt.Printf("cards: %d total, %d learned, %d remaining (%d%%)\n", s.TotalCards, s.LearnedCards, s.RemainingCards, s.Progress)
		for _, cat := range s.Categories {
			fmt.Printf("  %s: %d/%d learned\n", cat, byCategory[cat].Learned, byCategory[cat].Total)
		}
		fmt.Printf("storage used: %.2f KB\n", adapter.Size(ctx))

	case "progress":
		daily := tracker.DailyStats()
		weekly := tracker.WeeklyStats()
		perf := tracker.Performance(30)
		fmt.Printf("streak: %d days\n", tracker.Streak())
		fmt.Printf("today: %d/%d cards (%d%%)", daily.CardsStudiedToday, daily.DailyGoal, daily.DailyProgress)
		if daily.IsGoalReached {
			fmt.Print("  goal reached!")
		}
		fmt.Println()
		fmt.Printf("last 7 days: %d cards, average %d/day\n", weekly.WeeklyCards, weekly.DailyAverage)
		for _, p := range weekly.ChartData {
			fmt.Printf("  %s %s: %d\n", p.DayName, p.Date, p.Cards)
		}
		fmt.Printf("last 30 days: %d%% accuracy over %d answers, avg %ds per card\n", perf.Accuracy, perf.TotalAnswers, perf.AverageTimeSpent)

	case "goal":
		if len(rest) == 1 {
			goal, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("invalid goal %q", rest[0])
			}
			tracker.SetDailyGoal(ctx, goal)
		}
		fmt.Printf("daily goal: %d cards\n", tracker.DailyGoal())

	case "export":
		payload := adapter.ExportAll(ctx)
		if payload == nil {
			return apperrors.NewStorageError("export", nil)
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		if len(rest) == 1 {
			return os.WriteFile(rest[0], out, 0o644)
		}
		fmt.Println(string(out))

	case "import":
		if len(rest) != 1 {
			return fmt.Errorf("import needs <file>")
		}
		raw, err := os.ReadFile(rest[0])
		if err != nil {
			return err
		}
		var payload storage.ExportPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return apperrors.NewImportError(fmt.Sprintf("invalid backup file: %v", err))
		}
		if !adapter.ImportAll(ctx, &payload) {
			return apperrors.NewImportError("backup payload was rejected")
		}
		cards.Reload(ctx)
		fmt.Println("import complete")

	case "reset":
		if !tracker.Reset(ctx) {
			return apperrors.NewStorageError("reset", nil)
		}

	default:
		pflag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid card id %q", s)
	}
	return id, nil
}
