package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/attrcodec/internal/config"
	"firestige.xyz/attrcodec/internal/log"
	"firestige.xyz/attrcodec/internal/vector"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <type> <value>",
	Short: "Encode an attribute value to wire bytes",
	Long: `Encode a textual attribute value and print the wire bytes.

Examples:
  attrcodec encode ipaddr 192.168.0.255
  attrcodec encode ipv6prefix 2001:db8::/32
  attrcodec encode date 2026-01-02T15:04:05Z
  attrcodec encode abinary "family=ipv4 action=discard direction=in dst=10.10.255.254/32"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEncode(GetCodec(), appConfig.Output, cmd.OutOrStdout(), args[0], args[1])
	},
}

func runEncode(c Codec, cfg config.OutputConfig, out io.Writer, typ, text string) error {
	b, err := c.Encode(typ, vector.TextValue(typ, text))
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", typ, err)
	}
	log.GetLogger().WithFields(map[string]interface{}{"type": typ, "bytes": len(b)}).Debug("encoded")
	fmt.Fprintln(out, formatBytes(b, cfg))
	return nil
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
