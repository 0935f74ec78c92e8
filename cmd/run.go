package cmd

import (
	"github.com/lehigh-university-libraries/h5diff/internal/diffcmd"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return diffcmd.NewRunCmd()
}

func newReportCmd() *cobra.Command {
	return diffcmd.NewReportCmd()
}

func newInspectCmd() *cobra.Command {
	return diffcmd.NewInspectCmd()
}
