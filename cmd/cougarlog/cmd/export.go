package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/export"
	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a decoded log as CSV",
	Long: `Decode a WPILOG file and write its samples as CSV with Timestamp,
Name and Value columns.

Examples:
  cougarlog export match42.wpilog -o match42.csv
  cougarlog export match42.wpilog > match42.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

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

		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				fmt.Printf("Error creating output file: %v\n", err)
				return
			}
			defer f.Close()
			out = f
		}

		if err := export.WriteCSV(out, sess.Samples); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			return
		}

		if output != "" {
			fmt.Printf("Wrote %d samples to %s\n", len(sess.Samples), output)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
