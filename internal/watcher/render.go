package watcher

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/mvarner/route6watch/internal/routetab"
)

// render writes one snapshot in the configured format. "procfs" is the
// same three-line-per-entry text the kernel table exposes, so output
// can be fed back through the parser.
func render(w io.Writer, format string, routes []routetab.Route) error {
	switch format {
	case "", "table":
		return renderTable(w, routes)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	case "yaml":
		data, err := yaml.Marshal(routes)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "procfs":
		return routetab.WriteAll(w, routes)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(w io.Writer, routes []routetab.Route) error {
	tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tNETMASK\tROUTER")
	for _, rt := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Prefix, rt.Netmask, rt.Router)
	}
	return tw.Flush()
}
