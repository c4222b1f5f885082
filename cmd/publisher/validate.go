package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feichai0017/notebook-publisher/internal/service/notebook"
	"github.com/feichai0017/notebook-publisher/internal/utils/validator"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <notebook.ipynb>",
		Short: "Check the notebook front matter without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := validator.NewNotebookValidator(a.log.Named("validator")).Validate(args[0])
			if err != nil {
				return err
			}
			if !result.OK() {
				return &notebook.ValidationError{Path: args[0], Reason: result.Reason}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%q by %s)\n", args[0], result.Metadata["title"], result.Metadata["author"])
			return nil
		},
	}
}
