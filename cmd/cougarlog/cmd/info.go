package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/wpilog"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Inspect a log file's header and framing",
	Long: `Inspect a WPILOG file without fully decoding it: validity, version,
extra header, and how many records are fully framed. A consumed byte
count short of the file size means the tail is truncated or corrupt.

Example:
  cougarlog info match42.wpilog`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading file: %v\n", err)
			return
		}

		r := wpilog.NewReader(buf)
		if !r.IsValid() {
			fmt.Printf("Invalid: %s is not a WPILOG file\n", args[0])
			return
		}

		version := r.Version()
		records := 0
		it := r.Records()
		for it.Next() {
			records++
		}

		fmt.Printf("Valid WPILOG, version %d.%d\n", version>>8, version&0xff)
		if extra := r.ExtraHeader(); extra != "" {
			fmt.Printf("Extra header: %s\n", extra)
		}
		fmt.Printf("Records: %d\n", records)
		fmt.Printf("Bytes consumed: %d of %d\n", it.BytesConsumed(), len(buf))
		if it.BytesConsumed() != len(buf) {
			fmt.Printf("Warning: %d trailing bytes are not a complete record (truncated log?)\n", len(buf)-it.BytesConsumed())
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
