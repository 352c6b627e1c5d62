package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

var consultCmd = &cobra.Command{
	Use:   "consult [question]",
	Short: "Ask the interior designer persona a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConsult,
}

func init() {
	consultCmd.Flags().StringArray("image", nil, "Path to an image to attach (repeatable)")
}

func runConsult(cmd *cobra.Command, args []string) error {
	paths, _ := cmd.Flags().GetStringArray("image")
	var images []domain.ImageBlob
	for _, p := range paths {
		blob, err := readImageFile(p)
		if err != nil {
			return err
		}
		images = append(images, blob)
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	res, err := a.pipeline.Consult(cmd.Context(), strings.Join(args, " "), images)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}
