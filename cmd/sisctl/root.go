package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/repository"
	"github.com/noah-isme/sis-schedule-console/internal/service"
	"github.com/noah-isme/sis-schedule-console/pkg/config"
	"github.com/noah-isme/sis-schedule-console/pkg/hrms"
)

// cliSession scopes the in-process console state of one invocation.
const cliSession = "sisctl"

type rootOptions struct {
	baseURL string
	timeout time.Duration
	verbose bool
}

// console is the service graph one command runs against. State lives in memory for the
// lifetime of the process.
type console struct {
	board *service.BoardService
	sync  *service.SyncService
}

func (o *rootOptions) console() (*console, error) {
	if o.baseURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, withCode(exitUsage, fmt.Errorf("load config: %w", err))
		}
		o.baseURL = cfg.HRMS.BaseURL
		if o.timeout == 0 {
			o.timeout = cfg.HRMS.Timeout
		}
	}

	logger := zap.NewNop()
	if o.verbose {
		logger, _ = zap.NewDevelopment()
	}

	client := hrms.NewClient(hrms.Options{BaseURL: o.baseURL, Timeout: o.timeout, Logger: logger})
	cache := service.NewCacheService(repository.NewMemoryCacheRepository(), nil, time.Hour, logger)
	busy := service.NewBusyTracker()
	board := service.NewBoardService(client, cache, busy, time.Hour, 0, logger)
	return &console{
		board: board,
		sync:  service.NewSyncService(client, board, busy, nil, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "sisctl",
		Short:         "Inspect and sync SIS schedules against HRMS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "hrms-url", "", "HRMS base URL (defaults to HRMS_BASE_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "HRMS request timeout (0 disables)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log HRMS requests to stderr")

	cmd.AddCommand(newSchedulesCmd(opts))
	cmd.AddCommand(newFacultyCmd(opts))
	cmd.AddCommand(newSyncCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}
