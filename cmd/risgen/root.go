package main

import (
	"github.com/spf13/cobra"

	"risgen/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "risgen",
	Short: "Batch RIS citation generator for PDF folders",
	Long: `risgen turns a folder of academic PDFs into RIS citation files.

For each PDF it extracts text from the first and last pages, asks an AI
provider to identify the bibliographic fields, and writes a .ris file next
to the source document. Uncertain values are annotated with confidence
markers (?, ??, ???) so they can be reviewed in a reference manager.

PDFs with no extractable text fall back to filename-only inference and are
tagged OCR_REQUIRED in the output.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.risgen/config.yaml)",
	)

	rootCmd.AddCommand(versionCmd)
}
