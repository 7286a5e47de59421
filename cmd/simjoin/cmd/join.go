package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treesimjoin/simjoin/internal/join"
	"github.com/treesimjoin/simjoin/internal/service"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

var (
	joinAlgo      string
	joinTau       int
	joinSeed      int64
	joinLGMWindow int
	joinRecord    bool
)

var joinCmd = &cobra.Command{
	Use:   "join <corpus>",
	Short: "Run a similarity self-join over a stored corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&joinAlgo, "algo", "tjoin", "Join strategy: naive, tjoin, tang, guha-rsb, guha-rsc")
	joinCmd.Flags().IntVar(&joinTau, "tau", -1, "Distance threshold (defaults to the configured join.default_tau)")
	joinCmd.Flags().Int64Var(&joinSeed, "seed", 1, "RNG seed for the Guha reference-set sample")
	joinCmd.Flags().IntVar(&joinLGMWindow, "lgm-window", 2, "Candidate window for the TJoin LGM upper-bound shortcut")
	joinCmd.Flags().BoolVar(&joinRecord, "record", false, "Persist this run and its result pairs via the configured database")
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	corpusName := args[0]
	cfg := GetConfig()
	logger := GetLogger()

	tau := joinTau
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

	trees, _, _, err := svc.LoadCorpus(ctx, corpusName, treeindex.CapAll)
	if err != nil {
		return err
	}
	if len(trees) == 0 {
		logger.Warn("corpus %q is empty", corpusName)
		return nil
	}

	model := svc.DefaultCostModel()
	touzet := svc.NewTouzet()

	var results []join.JoinResultElement
	var candidates, verified uint64

	switch joinAlgo {
	case "naive":
		d := join.NewNaiveJoin()
		results = d.Execute(ctx, trees, model, touzet, tau)
		candidates, verified = d.GetCandidatesCount(), d.GetVerificationCount()
	case "tjoin":
		d := join.NewTJoinDriver(joinLGMWindow)
		results = d.Execute(ctx, trees, model, touzet, tau)
		candidates, verified = d.GetCandidatesCount(), d.GetVerificationCount()
	case "tang":
		d := join.NewTangDriver()
		results = d.Execute(ctx, trees, model, touzet, tau)
		candidates, verified = d.GetCandidatesCount(), d.GetVerificationCount()
	case "guha-rsb", "guha-rsc":
		variant := join.GuhaRSB
		if joinAlgo == "guha-rsc" {
			variant = join.GuhaRSC
		}
		d := join.NewGuhaDriver(variant, joinSeed)
		results = d.Execute(ctx, trees, model, touzet, ted.NewConstrained(), ted.NewAPTED(), tau)
		candidates, verified = d.GetCandidatesCount(), d.GetVerificationCount()
	default:
		return fmt.Errorf("unknown join algorithm: %q", joinAlgo)
	}

	for _, r := range results {
		fmt.Printf("%d\t%d\t%.0f\n", r.TreeID1, r.TreeID2, r.Distance)
	}
	logger.Info("pairs: %d, candidates: %d, verified: %d", len(results), candidates, verified)

	if joinRecord {
		runID, err := svc.RecordRun(ctx, corpusName, joinAlgo, "join", tau, service.RunResult{
			Pairs:      results,
			Candidates: candidates,
			Verified:   verified,
		})
		if err != nil {
			return err
		}
		logger.Info("recorded run %d", runID)
	}
	return nil
}
