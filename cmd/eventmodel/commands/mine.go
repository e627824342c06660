package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/moolen/eventmodel/internal/export"
	"github.com/moolen/eventmodel/internal/ingest"
	"github.com/moolen/eventmodel/internal/logging"
	"github.com/moolen/eventmodel/internal/mining"
	"github.com/moolen/eventmodel/internal/runconfig"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

var (
	inputPath        string
	configPath       string
	invariantsOut    string
	graphOut         string
	modelOut         string
	kOverride        int
	relationOverride string
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine invariants and a behavioral model from a log file",
	RunE:  runMine,
}

func init() {
	mineCmd.Flags().StringVar(&inputPath, "input", "", "path to a newline-delimited log file (required)")
	mineCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML mining options file")
	mineCmd.Flags().StringVar(&invariantsOut, "invariants-out", "invariants.txt", "path to write the mined invariant file")
	mineCmd.Flags().StringVar(&graphOut, "graph-out", "", "optional path to write the trace graph as JSON")
	mineCmd.Flags().StringVar(&modelOut, "model-out", "model.json", "path to write the final partition graph as JSON")
	mineCmd.Flags().IntVar(&kOverride, "k", 0, "override the k-tails depth (0 leaves the config value untouched)")
	mineCmd.Flags().StringVar(&relationOverride, "relation", "", "override the primary mining relation")
	_ = mineCmd.MarkFlagRequired("input")
}

func runMine(cmd *cobra.Command, args []string) error {
	if err := setupLog(logLevelFlags); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	runID := uuid.New().String()
	ctx := context.WithValue(cmd.Context(), logging.TraceIDKey(), runID)
	log := logging.GetLogger("cmd").WithContext(ctx)
	log.InfoWithFields("starting run", logging.Field("input", inputPath))

	opts, err := runconfig.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(opts); err != nil {
		return err
	}

	lines, err := readLines(inputPath)
	if err != nil {
		return fmt.Errorf("reading %q: %w", inputPath, err)
	}

	traces, err := ingest.BuildTraces(lines, ingest.DefaultConfig())
	if err != nil {
		return fmt.Errorf("tokenizing log lines: %w", err)
	}

	g, err := tracegraph.BuildChains(traces, opts.Relation)
	if err != nil {
		return fmt.Errorf("building trace graph: %w", err)
	}

	result, err := mining.Run(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("mining run %s: %w", runID, err)
	}

	if len(result.UnresolvedInvariants) > 0 {
		log.WarnWithFields("run finished with unresolved invariants", logging.Field("count", len(result.UnresolvedInvariants)))
	}

	if err := writeInvariantsFile(result, invariantsOut); err != nil {
		return err
	}
	if graphOut != "" {
		if err := writeGraphFile(g, graphOut); err != nil {
			return err
		}
	}
	if err := writeModelFile(result, modelOut); err != nil {
		return err
	}

	log.InfoWithFields("run complete",
		logging.Field("invariants", len(result.Invariants)),
		logging.Field("partitions", result.Model.NumPartitions()),
	)
	return nil
}

func applyFlagOverrides(opts *runconfig.Options) error {
	overrides := make(map[string]string)
	if kOverride > 0 {
		overrides["k"] = strconv.Itoa(kOverride)
	}
	if relationOverride != "" {
		overrides["relation"] = relationOverride
	}
	if len(overrides) == 0 {
		return nil
	}
	return runconfig.ApplyOverrides(opts, overrides)
}

func readLines(path string) ([]ingest.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []ingest.Line
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		process, message := splitProcessPrefix(raw)
		lines = append(lines, ingest.Line{Raw: message, Process: process})
	}
	return lines, scanner.Err()
}

// splitProcessPrefix recognizes an optional "process: message" prefix so a
// log file can carry more than one distributed process's lines
// interleaved; a line with no such prefix belongs to the default process.
func splitProcessPrefix(raw string) (process, message string) {
	idx := strings.Index(raw, ": ")
	if idx <= 0 {
		return "", raw
	}
	candidate := raw[:idx]
	if strings.ContainsAny(candidate, " \t") {
		return "", raw
	}
	return candidate, raw[idx+2:]
}

func writeInvariantsFile(result *mining.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()
	return export.WriteInvariants(f, result.Invariants)
}

func writeGraphFile(g *tracegraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()
	return export.WriteGraph(f, g)
}

func writeModelFile(result *mining.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()
	return export.WritePartitionGraph(f, result.Model)
}
