package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/soyeahso/cordkit/components"
	"github.com/spf13/cobra"
)

func newComponentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "Validate message component JSON",
	}

	cmd.AddCommand(newComponentsCheckCmd())
	return cmd
}

func newComponentsCheckCmd() *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "check <file|->",
		Short: "Decode and validate a component or component list",
		Long:  "Reads a JSON component object or array from a file (or stdin with \"-\"), validates it and prints its structure.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := readComponents(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if normalize {
				return writeJSON(out, list)
			}
			for _, c := range list {
				describeComponent(out, c, 0)
			}
			fmt.Fprintf(out, "ok: %d top-level component(s)\n", len(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&normalize, "normalize", false, "print the re-encoded JSON instead of a summary")
	return cmd
}

// readComponents loads a component object or array from path, or from stdin
// when path is "-".
func readComponents(path string, stdin io.Reader) ([]components.Component, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading components: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return components.DecodeList(data)
	}
	c, err := components.Decode(data)
	if err != nil {
		return nil, err
	}
	return []components.Component{c}, nil
}

func describeComponent(w io.Writer, c components.Component, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := c.(type) {
	case *components.ActionRow:
		fmt.Fprintf(w, "%s%s (%d)\n", indent, v.Type(), len(v.Components))
		for _, child := range v.Components {
			describeComponent(w, child, depth+1)
		}
	case *components.Button:
		ref := v.CustomID
		switch {
		case v.URL != "":
			ref = v.URL
		case v.SKUID != nil:
			ref = "sku " + v.SKUID.String()
		}
		fmt.Fprintf(w, "%s%s %s %q -> %s\n", indent, v.Type(), v.Style, v.Label, ref)
	case *components.SelectMenu:
		fmt.Fprintf(w, "%s%s %s options=%d values=%d..%d\n",
			indent, v.Type(), v.CustomID, len(v.Options), v.EffectiveMinValues(), v.EffectiveMaxValues())
	case *components.TextInput:
		fmt.Fprintf(w, "%s%s %s %s %q\n", indent, v.Type(), v.Style, v.CustomID, v.Label)
	default:
		fmt.Fprintf(w, "%s%s\n", indent, c.Type())
	}
}
