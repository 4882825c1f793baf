package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/analysis"
	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Summarize a numeric stream",
	Long: `Decode a WPILOG file and print the five-number summary and mean of
one numeric stream, optionally narrowed to a timestamp range.

Examples:
  cougarlog stats match42.wpilog --stream drivetrain/velocity
  cougarlog stats match42.wpilog --stream shooter/rpm --start 15 --end 135`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream, _ := cmd.Flags().GetString("stream")
		start, _ := cmd.Flags().GetFloat64("start")
		end, _ := cmd.Flags().GetFloat64("end")

		buf, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading file: %v\n", err)
			return
		}

		sess, err := session.Decode(buf)
		if err != nil {
			fmt.Printf("Error decoding log: %v\n", err)
			return
		}

		samples := make([]session.Sample, 0)
		for _, s := range sess.Samples {
			if s.Name == stream {
				samples = append(samples, s)
			}
		}
		samples = analysis.FilterRange(samples, start, end)

		summary, err := analysis.Summarize(samples)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("Stream: %s (%d numeric samples)\n", stream, summary.Count)
		fmt.Printf("Min: %g | Q1: %g | Med: %g | Q3: %g | Max: %g\n",
			summary.Min, summary.Q1, summary.Median, summary.Q3, summary.Max)
		fmt.Printf("Mean: %g\n", summary.Mean)

		if derivative, _ := cmd.Flags().GetBool("derivative"); derivative {
			points := analysis.Differentiate(analysis.Numeric(samples))
			if len(points) == 0 {
				fmt.Fprintln(os.Stderr, "Not enough samples for a derivative")
				return
			}
			fmt.Println("1st derivative:")
			for _, p := range points {
				fmt.Printf("%.6f\t%g\n", p.Timestamp, p.Value)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("stream", "", "Stream to summarize (required)")
	statsCmd.Flags().Float64("start", 0, "Inclusive range start, seconds")
	statsCmd.Flags().Float64("end", 0, "Inclusive range end, seconds (0 = open)")
	statsCmd.Flags().Bool("derivative", false, "Also print the 1st derivative series")
	_ = statsCmd.MarkFlagRequired("stream")
}
