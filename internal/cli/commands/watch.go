package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/routefold/internal/pipeline"
	"github.com/leapstack-labs/routefold/pkg/classify"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Debounce time.Duration
	Initial  bool // Process existing modules before watching
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rewrite route modules as they change",
		Long: `Watch a directory tree and rewrite route modules whenever they are
written. Rewritten files are ignored. Stops on Ctrl+C.`,
		Example: `  # Watch the current directory
  routefold watch

  # Watch src/routes, writing JavaScript into build/
  routefold watch src/routes --emit js --out-dir build`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, dir, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", pipeline.DefaultDebounce, "Quiet period after a write before reprocessing")
	cmd.Flags().BoolVar(&opts.Initial, "initial", true, "Process existing modules before watching")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, dir string, opts *WatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	p, err := cmdCtx.NewPipeline()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.Initial {
		files, err := p.Collect([]string{dir})
		if err != nil {
			return err
		}
		for _, path := range files {
			res, err := p.ProcessFile(ctx, path)
			if err == nil {
				err = p.WriteOutput(res)
			}
			reportWatch(out, res, err)
		}
	}

	var mu sync.Mutex
	return p.Watch(ctx, dir, opts.Debounce, func(res *pipeline.FileResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		reportWatch(out, res, err)
	})
}

func reportWatch(w io.Writer, res *pipeline.FileResult, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	counts := res.Result.Counts()
	_, _ = fmt.Fprintf(w, "%s -> %s (%d page-server, %d server, %d client)\n",
		res.Path, res.OutPath,
		counts[classify.PageServer], counts[classify.Server], counts[classify.Client])
}
