package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/join"
	"github.com/treesimjoin/simjoin/internal/service"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

var (
	lookupAlgo string
	lookupTau  int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <query-tree> <corpus>",
	Short: "Find corpus trees within tau of a query tree",
	Args:  cobra.ExactArgs(2),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupAlgo, "algo", "index", "Lookup strategy: scan, index")
	lookupCmd.Flags().IntVar(&lookupTau, "tau", -1, "Distance threshold (defaults to the configured join.default_tau)")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	queryPath, corpusName := args[0], args[1]
	cfg := GetConfig()
	logger := GetLogger()

	tau := lookupTau
	if tau < 0 {
		tau = cfg.Join.DefaultTau
	}

	svc, err := service.New(cfg, logger)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	corpus, rows, dict, err := svc.LoadCorpus(ctx, corpusName, treeindex.CapAll)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", queryPath, err)
	}
	root, err := bracket.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", queryPath, err)
	}
	query := treeindex.Build(root, dict, treeindex.CapAll)

	model := svc.DefaultCostModel()
	touzet := svc.NewTouzet()

	var results []join.JoinResultElement
	var candidates, verified uint64

	switch lookupAlgo {
	case "scan":
		d := join.NewScanLookup()
		results = d.Execute(ctx, query, corpus, model, touzet, tau)
		candidates, verified = d.GetCandidatesCount(), d.GetVerificationCount()
	case "index":
		d := join.NewIndexedLookup(corpus)
		results = d.Execute(ctx, query, model, touzet, tau)
		candidates, verified = d.GetCandidatesCount(), d.GetVerificationCount()
	default:
		return fmt.Errorf("unknown lookup algorithm: %q", lookupAlgo)
	}

	for _, r := range results {
		name := ""
		if r.TreeID2 >= 0 && r.TreeID2 < len(rows) {
			name = rows[r.TreeID2].Name
		}
		fmt.Printf("%s\t%.0f\n", name, r.Distance)
	}
	logger.Info("matches: %d, candidates: %d, verified: %d", len(results), candidates, verified)
	return nil
}
