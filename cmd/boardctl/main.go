// Command boardctl edits the task board directly in the configured storage
// backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"workload-board/backend"
	"workload-board/board"
	"workload-board/config"
	"workload-board/domain"
	"workload-board/logging"
	"workload-board/render"
	"workload-board/storage"
)

const usage = `usage: boardctl <command> [flags]

commands:
  show                                   print the board
  add-person    -name N [-level L]       add a person
  rename        -id ID -name N           rename a person
  level         -id ID -level L          change a person's level
  delete-person -id ID                   delete a person and their tasks
  move          -index I -dir up|down    move a person one slot
  add-task      -person ID -title T [-size S] [-color C]
  update-task   -person ID -task ID -title T [-size S] [-color C]
  delete-task   -person ID -task ID
  reorder       -person ID -from ID -to ID
  weights                                print the weight table
  set-weight    -size S -level L -value V
  reset                                  restore the default board
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(logging.Options{Debug: cfg.Debug, Format: cfg.LogFormat, File: cfg.LogFile})
	if !cfg.Debug {
		logger.SetLevel(log.WarnLevel)
	}

	be, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	store := board.Open(context.Background(), storage.NewSnapshots(be.KV), logger)

	code := run(context.Background(), store, os.Args[1:], os.Stdout, os.Stderr)
	if err := be.Close(); err != nil {
		logger.WithError(err).Warn("close storage")
	}
	os.Exit(code)
}

// run executes one command against store and returns the exit code.
func run(ctx context.Context, store *board.Store, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	st, show, err := dispatch(ctx, store, args[0], args[1:], stderr)
	if err != nil {
		fmt.Fprintf(stderr, "boardctl %s: %v\n", args[0], err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	switch show {
	case showBoard:
		render.Board(stdout, st)
	case showWeights:
		render.Weights(stdout, st.Weights)
	}
	return 0
}

type showKind int

const (
	showBoard showKind = iota
	showWeights
)

var errUsage = errors.New("invalid arguments")

func dispatch(ctx context.Context, store *board.Store, cmd string, args []string, stderr io.Writer) (board.State, showKind, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		id     = fs.String("id", "", "person id")
		name   = fs.String("name", "", "person name")
		level  = fs.Int("level", int(domain.DefaultLevel), "level 14-22")
		index  = fs.Int("index", -1, "position of the person on the board")
		dir    = fs.String("dir", "", "up or down")
		person = fs.String("person", "", "person id")
		task   = fs.String("task", "", "task id")
		title  = fs.String("title", "", "task title")
		size   = fs.String("size", string(domain.DefaultEstimation), "L, M, S or XS")
		colour = fs.String("color", domain.DefaultColor, "task colour")
		from   = fs.String("from", "", "task id being dragged")
		to     = fs.String("to", "", "task id dropped on")
		value  = fs.String("value", "", "weight value")
	)
	if err := fs.Parse(args); err != nil {
		return board.State{}, showBoard, fmt.Errorf("%w: %v", errUsage, err)
	}
	require := func(vals ...string) error {
		for _, v := range vals {
			if strings.TrimSpace(v) == "" {
				return errUsage
			}
		}
		return nil
	}
	parseSize := func() (domain.EstimationSize, error) {
		return domain.ParseEstimation(*size)
	}

	switch cmd {
	case "show":
		return store.State(), showBoard, nil
	case "weights":
		return store.State(), showWeights, nil
	case "add-person":
		if err := require(*name); err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.AddPerson(ctx, *name, domain.Level(*level))
		return st, showBoard, err
	case "rename":
		if err := require(*id, *name); err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.RenamePerson(ctx, *id, *name)
		return st, showBoard, err
	case "level":
		if err := require(*id); err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.ChangeLevel(ctx, *id, domain.Level(*level))
		return st, showBoard, err
	case "delete-person":
		if err := require(*id); err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.DeletePerson(ctx, *id)
		return st, showBoard, err
	case "move":
		d, err := domain.ParseDirection(*dir)
		if err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.MovePerson(ctx, *index, d)
		return st, showBoard, err
	case "add-task":
		if err := require(*person, *title); err != nil {
			return board.State{}, showBoard, err
		}
		s, err := parseSize()
		if err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.AddTask(ctx, *person, *title, s, *colour)
		return st, showBoard, err
	case "update-task":
		if err := require(*person, *task, *title); err != nil {
			return board.State{}, showBoard, err
		}
		s, err := parseSize()
		if err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.UpdateTask(ctx, *person, *task, *title, s, *colour)
		return st, showBoard, err
	case "delete-task":
		if err := require(*person, *task); err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.DeleteTask(ctx, *person, *task)
		return st, showBoard, err
	case "reorder":
		if err := require(*person, *from, *to); err != nil {
			return board.State{}, showBoard, err
		}
		st, err := store.ReorderTasks(ctx, *person, *from, *to)
		return st, showBoard, err
	case "set-weight":
		s, err := parseSize()
		if err != nil {
			return board.State{}, showWeights, err
		}
		lvl := domain.Level(*level)
		if !lvl.Valid() {
			return board.State{}, showWeights, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, lvl)
		}
		table := store.State().Weights.With(s, lvl, domain.ParseWeight(*value))
		st, err := store.SaveWeights(ctx, table)
		return st, showWeights, err
	case "reset":
		st, err := store.ResetToDefaults(ctx)
		return st, showBoard, err
	}
	fmt.Fprint(stderr, usage)
	return board.State{}, showBoard, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}
