package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netsim-dev/netsim/sim"
	"github.com/netsim-dev/netsim/sim/netio"
)

var (
	convertInPath  string
	convertOutPath string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a network description between the text and YAML formats",
	Long:  "Convert a network description. The format of each file is chosen by its extension: .yaml/.yml is YAML, anything else is the line-oriented text format. The network is built and validated before it is written.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := convertNetwork(convertInPath, convertOutPath); err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
		logrus.Infof("Wrote %s", convertOutPath)
	},
}

// convertNetwork builds the network in `in` and writes its description to `out`.
func convertNetwork(in, out string) error {
	if in == "" || out == "" {
		return fmt.Errorf("both --in and --out are required")
	}
	f, err := netio.Load(in, sim.FactoryConfig{Seed: sim.DefaultSeed})
	if err != nil {
		return err
	}
	return netio.Save(out, f)
}

func init() {
	convertCmd.Flags().StringVar(&convertInPath, "in", "", "Input network description")
	convertCmd.Flags().StringVar(&convertOutPath, "out", "", "Output network description")
	rootCmd.AddCommand(convertCmd)
}
