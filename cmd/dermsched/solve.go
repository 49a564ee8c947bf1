package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bluemens/dermatopathology-scheduler/internal/config"
	"github.com/bluemens/dermatopathology-scheduler/internal/database"
	"github.com/bluemens/dermatopathology-scheduler/internal/metrics"
	"github.com/bluemens/dermatopathology-scheduler/internal/repository"
	"github.com/bluemens/dermatopathology-scheduler/internal/roster"
	"github.com/bluemens/dermatopathology-scheduler/pkg/logger"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/solver"
	"github.com/bluemens/dermatopathology-scheduler/pkg/stats"
)

var (
	rosterPath string
	outputPath string
	save       bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Build and solve the scheduling model for a roster",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "roster file (json)")
	solveCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the schedule as JSON to this file instead of stdout")
	solveCmd.Flags().BoolVar(&save, "save", false, "persist the schedule to the database")
	solveCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, err := roster.Load(rosterPath)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	var sink *metrics.Sink
	if cfg.Metrics.Enabled {
		sink, err = metrics.NewSink()
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				logger.WithError(err).Msg("metrics server stopped")
			}
		}()
	}

	engine := solver.NewDFSEngine(solver.WithTimeLimit(cfg.Scheduler.TimeLimit))
	sched, err := scheduler.New(input, scheduler.WithEngine(engine))
	if err != nil {
		return err
	}

	schedule, res, err := sched.Run(ctx)
	if sink != nil && res != nil {
		sink.RecordSolve(res)
	}
	if err != nil {
		return err
	}

	workload := stats.NewWorkloadAnalyzer().Analyze(schedule)
	coverage := stats.NewCoverageAnalyzer().Analyze(schedule)
	if sink != nil {
		sink.RecordQuality(workload, coverage)
	}
	logger.Info().
		Str("schedule_id", schedule.ID.String()).
		Float64("workload_gini", workload.Gini).
		Float64("coverage_fill_rate", coverage.OverallFillRate).
		Msg("schedule quality")

	if save {
		if err := persistSchedule(ctx, cfg, schedule, res); err != nil {
			return err
		}
	}
	return writeSchedule(schedule)
}

func persistSchedule(ctx context.Context, cfg *config.Config, schedule *model.Schedule, res *solver.Result) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewScheduleRepository(db)
	if err := repo.Create(ctx, repository.NewScheduleRecord(schedule, res)); err != nil {
		return err
	}
	if err := repo.CreateSlots(ctx, repository.SlotRecords(schedule)); err != nil {
		return err
	}
	logger.Info().Str("schedule_id", schedule.ID.String()).Msg("schedule persisted")
	return nil
}

func writeSchedule(schedule *model.Schedule) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(schedule)
}
