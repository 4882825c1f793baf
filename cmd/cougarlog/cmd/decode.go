package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a log file and print its samples",
	Long: `Decode a WPILOG file and print one line per sample: timestamp,
stream name, value.

Examples:
  cougarlog decode match42.wpilog
  cougarlog decode match42.wpilog --stream drivetrain/velocity`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream, _ := cmd.Flags().GetString("stream")

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

		for _, s := range sess.Samples {
			if stream != "" && s.Name != stream {
				continue
			}
			fmt.Printf("%.6f\t%s\t%s\n", s.Timestamp, s.Name, s.Value.Text())
		}

		for _, derr := range sess.Errors {
			fmt.Fprintf(os.Stderr, "decode error: %v\n", derr)
		}
		if sess.Truncated() {
			fmt.Fprintf(os.Stderr, "warning: log tail truncated after %d of %d bytes\n", sess.BytesConsumed, sess.BufferSize)
		}
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().String("stream", "", "Only print samples of this stream")
}
