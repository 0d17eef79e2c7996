package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/attrcodec/internal/config"
	"firestige.xyz/attrcodec/internal/log"
	"firestige.xyz/attrcodec/pkg/attr"
)

var decodeRule bool

var decodeCmd = &cobra.Command{
	Use:   "decode <type> <bytes>",
	Short: "Decode wire bytes to an attribute value",
	Long: `Decode wire bytes, given as hex (or base64 when output.format is base64),
and print the attribute value.

Examples:
  attrcodec decode ipaddr c0a800ff
  attrcodec decode integer 00000e10
  attrcodec decode abinary --rule 0100010000000000...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecode(GetCodec(), appConfig.Output, cmd.OutOrStdout(), args[0], args[1], decodeRule)
	},
}

func runDecode(c Codec, cfg config.OutputConfig, out io.Writer, typ, input string, rule bool) error {
	if rule && typ != "abinary" {
		return fmt.Errorf("--rule only applies to abinary, not %s", typ)
	}
	b, err := parseBytes(input, cfg)
	if err != nil {
		return err
	}
	v, err := c.Decode(typ, b)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", typ, err)
	}
	log.GetLogger().WithFields(map[string]interface{}{"type": typ, "bytes": len(b)}).Debug("decoded")

	if rule {
		raw, _ := v.([]byte)
		var r attr.FilterRule
		if err := r.UnmarshalBinary(raw); err != nil {
			return fmt.Errorf("failed to parse filter rule: %w", err)
		}
		fmt.Fprintln(out, r.String())
		return nil
	}
	fmt.Fprintln(out, formatValue(v, cfg))
	return nil
}

func init() {
	decodeCmd.Flags().BoolVarP(&decodeRule, "rule", "r", false,
		"render abinary bytes as filter rule text")
	rootCmd.AddCommand(decodeCmd)
}
