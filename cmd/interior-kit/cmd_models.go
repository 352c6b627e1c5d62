package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-interior-kit/pkg/adapters"
	"github.com/shouni/gemini-interior-kit/pkg/generator"
	"github.com/shouni/gemini-interior-kit/pkg/resolver"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models and the ones each flow would use",
	RunE:  runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	lists := []struct {
		label      string
		capability adapters.Capability
		priority   []string
		fallback   []string
	}{
		{"direct", adapters.CapabilityGenerateContent, a.cfg.TextImageModels, generator.DefaultTextImagePriority},
		{"render", adapters.CapabilityPredict, a.cfg.ImagenModels, generator.DefaultImagenPriority},
		{"text", adapters.CapabilityGenerateContent, a.cfg.TextModels, generator.DefaultTextPriority},
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ROLE\tCAPABILITY\tRESOLVED\tCATALOG SIZE")
	for _, l := range lists {
		catalog, err := a.core.Catalog(cmd.Context(), l.capability)
		if err != nil {
			return err
		}
		priority := l.priority
		if len(priority) == 0 {
			priority = l.fallback
		}
		resolved, err := resolver.Resolve(priority, catalog)
		if err != nil {
			resolved = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", l.label, l.capability, resolved, len(catalog))
	}
	return nil
}
