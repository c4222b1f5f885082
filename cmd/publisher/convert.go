package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feichai0017/notebook-publisher/internal/service/notebook"
	"github.com/feichai0017/notebook-publisher/pkg/converters"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		prefix string
		report bool
	)

	cmd := &cobra.Command{
		Use:   "convert <notebook.ipynb> [output.md]",
		Short: "Convert a notebook to markdown and upload its images",
		Long: `Convert validates the notebook front matter, runs jupyter nbconvert,
uploads every local and generated image to object storage under
<prefix><file name>, and writes markdown whose image links point at the
uploaded copies. Web images are left untouched.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}

			req := notebook.ConvertRequest{
				NotebookPath: args[0],
				KeyPrefix:    prefix,
			}
			if len(args) == 2 {
				req.OutputPath = args[1]
			}

			result, err := svc.Convert(cmd.Context(), req)
			if err != nil {
				return err
			}

			if !report {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d images uploaded)\n", result.OutputPath, len(result.Uploads))
				return nil
			}
			r, err := converters.NewReport(result)
			if err != nil {
				return err
			}
			return r.WriteJSON(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "remote key prefix for uploaded images, e.g. blog/2024/my-post/")
	cmd.Flags().BoolVar(&report, "report", false, "print a JSON report instead of a summary line")
	return cmd
}
