// Command mstrun reads an adjacency matrix from stdin, spins up a cohort
// of peers (in-process goroutines by default, or real OS processes over
// NATS when MST_TRANSPORT=nats and MST_RANK names this process's own
// rank), calls pkg/mst/orchestrator, and prints rank 0's tree. All of the
// substantive logic lives in pkg/mst and pkg/cohort; this file only wires
// config, logging, transport selection, and shutdown.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort"
	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort/memory"
	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort/natscohort"
	"github.com/chris-alexander-pop/mst-cohort/pkg/config"
	"github.com/chris-alexander-pop/mst-cohort/pkg/logger"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/orchestrator"
)

// Config is this binary's configuration, loaded by pkg/config from .env
// or the environment and validated by go-playground/validator.
type Config struct {
	Logger    logger.Config
	Algorithm string `env:"MST_ALGORITHM" env-default:"kruskal-par" validate:"oneof=prim-seq kruskal-seq prim-par kruskal-par"`
	Peers     int    `env:"MST_PEERS" env-default:"4" validate:"min=1"`
	Transport string `env:"MST_TRANSPORT" env-default:"memory" validate:"oneof=memory nats"`
	Nats      natscohort.Config
	RunID     string `env:"MST_RUN_ID"`
	// Rank pins this process to a single cohort rank for a genuine
	// multi-process NATS run; -1 (the default) means "simulate the whole
	// cohort as goroutines in this one process", which is how the memory
	// transport always runs.
	Rank     int  `env:"MST_RANK" env-default:"-1"`
	DebugSum bool `env:"MST_DEBUG_SUM" env-default:"false"`
}

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.Logger)
	l := logger.L()

	n, adj, err := readMatrix(os.Stdin)
	if err != nil {
		l.Error("failed to read adjacency matrix", "error", err)
		os.Exit(1)
	}

	peerCount := cfg.Peers
	if cfg.Algorithm == orchestrator.PrimSeq || cfg.Algorithm == orchestrator.KruskalSeq {
		peerCount = 1
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("mstrun shutting down")
		cancel()
	}()

	tree, sum, err := run(ctx, l, cfg, runID, n, adj, peerCount)
	if err != nil {
		l.Error("computation aborted", "error", err)
		os.Exit(1)
	}

	for _, e := range tree {
		fmt.Printf("%d %d\n", e.I, e.J)
	}
	if cfg.DebugSum {
		fmt.Printf("Sum : %d\n", sum)
	}
}

// run builds the cohort for this process and invokes the orchestrator,
// returning rank 0's tree once every peer has finished.
func run(ctx context.Context, l *slog.Logger, cfg Config, runID string, n int, adj []int, peerCount int) ([]edge.Edge, int, error) {
	if cfg.Transport == "nats" && cfg.Rank >= 0 {
		t, err := natscohort.New(ctx, cfg.Nats, runID, cfg.Rank, peerCount)
		if err != nil {
			return nil, 0, fmt.Errorf("mstrun: connect nats transport: %w", err)
		}
		defer t.Close()
		rankCtx := logger.WithRank(ctx, cfg.Rank)
		tree, sum, err := orchestrator.ComputeMST(rankCtx, n, adj, cfg.Algorithm, t)
		return tree, sum, err
	}

	transports := make([]cohort.Transport, peerCount)
	var closers []func()
	if cfg.Transport == "nats" {
		for r := 0; r < peerCount; r++ {
			t, err := natscohort.New(ctx, cfg.Nats, runID, r, peerCount)
			if err != nil {
				for _, closeFn := range closers {
					closeFn()
				}
				return nil, 0, fmt.Errorf("mstrun: connect nats transport rank %d: %w", r, err)
			}
			transports[r] = t
			closers = append(closers, t.Close)
		}
	} else {
		hub, hubCtx := memory.NewHub(ctx, peerCount)
		ctx = hubCtx
		for r := 0; r < peerCount; r++ {
			transports[r] = hub.Peer(r)
		}
	}
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	trees := make([][]edge.Edge, peerCount)
	sums := make([]int, peerCount)
	for r := 0; r < peerCount; r++ {
		r := r
		group.Go(func() error {
			rankCtx := logger.WithRank(groupCtx, r)
			tree, sum, err := orchestrator.ComputeMST(rankCtx, n, adj, cfg.Algorithm, transports[r])
			if err != nil {
				return err
			}
			trees[r] = tree
			sums[r] = sum
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}
	l.Debug("cohort run complete", "run_id", runID, "peers", peerCount, "algorithm", cfg.Algorithm)
	return trees[0], sums[0], nil
}

// readMatrix parses the minimal stdin format this external collaborator
// expects: a line with N, followed by N lines of N whitespace-separated
// integer weights. Row/column indices follow the same convention as
// pkg/mst/graph.Matrix.
func readMatrix(r *os.File) (int, []int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	if !scanner.Scan() {
		return 0, nil, fmt.Errorf("mstrun: missing vertex count line")
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0, nil, fmt.Errorf("mstrun: parsing vertex count: %w", err)
	}

	adj := make([]int, n*n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return 0, nil, fmt.Errorf("mstrun: missing row %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != n {
			return 0, nil, fmt.Errorf("mstrun: row %d has %d columns, want %d", i, len(fields), n)
		}
		for j, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return 0, nil, fmt.Errorf("mstrun: parsing row %d column %d: %w", i, j, err)
			}
			adj[i*n+j] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("mstrun: reading stdin: %w", err)
	}
	return n, adj, nil
}
