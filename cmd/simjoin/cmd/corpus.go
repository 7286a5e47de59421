package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treesimjoin/simjoin/internal/service"
	"github.com/treesimjoin/simjoin/pkg/parallel"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage stored tree corpora",
}

var corpusImportCmd = &cobra.Command{
	Use:   "import <dir> <corpus-name>",
	Short: "Import every .bracket file in a directory as a named corpus",
	Args:  cobra.ExactArgs(2),
	RunE:  runCorpusImport,
}

var corpusExportCmd = &cobra.Command{
	Use:   "export <corpus-name> <dir>",
	Short: "Export a stored corpus as .bracket files in a directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runCorpusExport,
}

func init() {
	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	dir, corpusName := args[0], args[1]
	cfg := GetConfig()
	logger := GetLogger()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".bracket") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return fmt.Errorf("no .bracket files found in %s", dir)
	}

	type fileResult struct {
		name string
		data string
		err  error
	}

	ctx := context.Background()
	poolCfg := parallel.DefaultPoolConfig().WithWorkers(cfg.Join.MaxWorker)
	results := parallel.MapReduce(ctx, names, poolCfg,
		func(ctx context.Context, fname string) fileResult {
			data, err := os.ReadFile(filepath.Join(dir, fname))
			if err != nil {
				return fileResult{err: fmt.Errorf("reading %s: %w", fname, err)}
			}
			return fileResult{name: strings.TrimSuffix(fname, ".bracket"), data: string(data)}
		},
		func(mapped []fileResult) []fileResult { return mapped },
	)

	trees := make(map[string]string, len(results))
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
		trees[r.name] = r.data
	}

	svc, err := service.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	if err := svc.ImportCorpus(ctx, corpusName, trees); err != nil {
		return err
	}
	logger.Info("imported %d trees into corpus %q", len(trees), corpusName)
	return nil
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	corpusName, dir := args[0], args[1]
	cfg := GetConfig()
	logger := GetLogger()

	svc, err := service.New(cfg, logger)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	_, rows, _, err := svc.LoadCorpus(ctx, corpusName, 0)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	for _, row := range rows {
		path := filepath.Join(dir, row.Name+".bracket")
		if err := os.WriteFile(path, []byte(row.Bracket), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	logger.Info("exported %d trees from corpus %q into %s", len(rows), corpusName, dir)
	return nil
}
