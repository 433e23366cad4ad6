package cli

import (
	"github.com/mx-space/feedguard/internal/modules/scanner"
	"github.com/mx-space/feedguard/internal/pkg/taskqueue"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [file.html]",
		Short: "Extract and classify every post in an HTML snapshot (stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runScan,
	}

	cmd.Flags().IntP("workers", "w", 0, "Worker count (default: detector.workers)")

	RootCmd.AddCommand(cmd)
}

func runScan(cmd *cobra.Command, args []string) {
	workers, _ := cmd.Flags().GetInt("workers")

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	in, err := openInput(path)
	if err != nil {
		exitErr("open input", err)
	}
	defer in.Close()

	engine, cfg, err := openEngine(cmd.Context())
	if err != nil {
		exitErr("open engine", err)
	}
	if workers <= 0 {
		workers = cfg.Detector.Workers
	}

	logger := newLogger()
	queue := taskqueue.New(taskqueue.Options{
		Workers:   workers,
		QueueSize: cfg.Detector.QueueSize,
		Logger:    logger,
	})
	defer queue.Close()

	report, err := scanner.NewService(engine.Coordinator, queue, logger).Scan(cmd.Context(), in)
	if err != nil {
		exitErr("scan", err)
	}
	printJSON(report)
}
