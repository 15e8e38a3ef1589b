package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// printOutput writes v in the selected output format. text renders the
// human readable form.
func printOutput(v any, text func(w io.Writer)) error {
	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err

	case "text", "":
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		text(tw)
		return tw.Flush()

	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
