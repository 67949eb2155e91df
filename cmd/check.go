package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netsim-dev/netsim/sim"
	"github.com/netsim-dev/netsim/sim/netio"
	"github.com/netsim-dev/netsim/sim/report"
	"github.com/netsim-dev/netsim/sim/topology"
)

var (
	checkNetworkPath string
	checkRoutes      bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print a network's structure and verify every ramp reaches a storehouse",
	Run: func(cmd *cobra.Command, args []string) {
		ok, err := checkNetwork(checkNetworkPath, checkRoutes, os.Stdout)
		if err != nil {
			logrus.Fatalf("Check failed: %v", err)
		}
		if !ok {
			os.Exit(2)
		}
	},
}

// checkNetwork writes the structure report, the consistency verdict and,
// when routes is set, the route analysis. Returns the verdict.
func checkNetwork(path string, routes bool, out io.Writer) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("no network description provided (--network)")
	}
	f, err := netio.Load(path, sim.FactoryConfig{Seed: sim.DefaultSeed})
	if err != nil {
		return false, err
	}
	if err := report.WriteStructure(out, f); err != nil {
		return false, err
	}

	res := f.CheckConsistency()
	fmt.Fprintf(out, "Consistency: %s\n", res)

	if routes {
		writeRoutes(out, topology.Build(f))
	}
	return res.Consistent, nil
}

func writeRoutes(out io.Writer, g *topology.Graph) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "== ROUTES ==")
	for _, ramp := range g.Ramps() {
		likely, ok := g.MostLikelyRoute(ramp)
		if !ok {
			fmt.Fprintf(out, "%s: no storehouse reachable\n", ramp)
			continue
		}
		shortest, _ := g.ShortestRoute(ramp)
		fmt.Fprintf(out, "%s: most likely %s (p = %.3f), shortest %d hops\n",
			ramp, joinRefs(likely.Nodes), likely.Probability, shortest.Hops())
	}
	if unreachable := g.Unreachable(); len(unreachable) > 0 {
		fmt.Fprintf(out, "Unreachable from every ramp: %s\n", joinRefs(unreachable))
	}
}

func joinRefs(refs []sim.NodeRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, " -> ")
}

func init() {
	checkCmd.Flags().StringVar(&checkNetworkPath, "network", "", "Network description file")
	checkCmd.Flags().BoolVar(&checkRoutes, "routes", false, "Also print the most likely and shortest route from each ramp")
	rootCmd.AddCommand(checkCmd)
}
