package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/jsonted"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

var (
	tedKernel string
	tedTau    int
	tedDebug  bool
)

var tedCmd = &cobra.Command{
	Use:   "ted <tree1> <tree2>",
	Short: "Compute the tree edit distance between two bracket-notation trees",
	Args:  cobra.ExactArgs(2),
	RunE:  runTed,
}

func init() {
	tedCmd.Flags().StringVar(&tedKernel, "kernel", "touzet", "Kernel: zs, apted, cted, touzet, jedi, jofilter, dpjed, modpjed")
	tedCmd.Flags().IntVar(&tedTau, "tau", -1, "Distance threshold (enables bounded kernels; -1 runs unbounded)")
	tedCmd.Flags().BoolVar(&tedDebug, "debug", false, "Dump each tree's postorder/label/parent index before comparing")
	rootCmd.AddCommand(tedCmd)
}

func parseTreeFile(path string, dict *label.Dictionary, caps treeindex.Capability) (*treeindex.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root, err := bracket.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return treeindex.Build(root, dict, caps), nil
}

func runTed(cmd *cobra.Command, args []string) error {
	dict := label.New()
	t1, err := parseTreeFile(args[0], dict, treeindex.CapAll)
	if err != nil {
		return err
	}
	t2, err := parseTreeFile(args[1], dict, treeindex.CapAll)
	if err != nil {
		return err
	}

	if tedDebug {
		fmt.Printf("tree1:\n%stree2:\n%s", t1.DebugString(dict), t2.DebugString(dict))
	}

	model := costmodel.Unit{}
	var dist float64
	var subproblems uint64

	switch tedKernel {
	case "zs":
		k := ted.NewZhangShasha()
		dist = k.TED(t1, t2, model)
		subproblems = k.GetSubproblemCount()
	case "apted":
		k := ted.NewAPTED()
		dist = k.TED(t1, t2, model)
		subproblems = k.GetSubproblemCount()
	case "cted":
		k := ted.NewConstrained()
		dist = k.TED(t1, t2, model)
		subproblems = k.GetSubproblemCount()
	case "touzet":
		k := ted.NewTouzet(ted.TouzetKRSet)
		if tedTau >= 0 {
			dist = k.TedK(t1, t2, model, tedTau)
		} else {
			dist = k.TED(t1, t2, model)
		}
		subproblems = k.GetSubproblemCount()
	case "jedi":
		k := jsonted.NewJEDI()
		dist = k.TED(t1, t2, model)
		subproblems = k.GetSubproblemCount()
	case "jofilter":
		k := jsonted.NewJOFilter()
		tau := tedTau
		if tau < 0 {
			tau = t1.Size + t2.Size
		}
		dist = k.TedTau(t1, t2, model, tau)
		subproblems = k.GetSubproblemCount()
	case "dpjed":
		k := jsonted.NewDPJED()
		dist = k.TED(t1, t2, model)
		subproblems = k.GetSubproblemCount()
	case "modpjed":
		k := jsonted.NewModPJED()
		dist = k.TED(t1, t2, model)
		subproblems = k.GetSubproblemCount()
	default:
		return fmt.Errorf("unknown kernel: %q", tedKernel)
	}

	logger := GetLogger()
	logger.Info("distance: %.0f", dist)
	logger.Info("subproblems: %d", subproblems)
	fmt.Printf("%.0f\n", dist)
	return nil
}
