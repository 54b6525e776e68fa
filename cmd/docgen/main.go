package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Preview and generate documents against the document service",
	Long: `docgen drives one generation session from the command line.

Student documents are written to --out as a PDF download; institutional
documents are generated and persisted by the document service, and the
created record is printed.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if msg, ok := failureMessage(err); ok {
			color.Red("✗ %s", msg)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.serviceURL, "service", envOr("DOC_SERVICE_URL", "http://localhost:8080"), "document service base URL")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "request timeout (default from DOC_SERVICE_TIMEOUT or 60s)")
	rootCmd.PersistentFlags().StringVar(&flags.mode, "mode", "student", "student | collaborator | institution")
	rootCmd.PersistentFlags().StringVar(&flags.body, "body", "", "document body")
	rootCmd.PersistentFlags().StringVar(&flags.bodyFile, "body-file", "", "read the body from a file")
	rootCmd.PersistentFlags().StringVar(&flags.header, "header", "", "header text")
	rootCmd.PersistentFlags().StringVar(&flags.footer, "footer", "", "footer text")
	rootCmd.PersistentFlags().StringVar(&flags.documentType, "type", "", "document type")
	rootCmd.PersistentFlags().Int64Var(&flags.subjectID, "subject", 0, "student id")
	rootCmd.PersistentFlags().StringVar(&flags.subjectName, "subject-name", "", "student name used in the download filename")
	rootCmd.PersistentFlags().StringVar(&flags.collaborator, "collaborator", "", "collaborator name")
	rootCmd.PersistentFlags().StringVar(&flags.title, "title", "", "institutional document title")
	rootCmd.PersistentFlags().StringVar(&flags.date, "date", "", "institutional document date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flags.out, "out", ".", "output directory")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(generateCmd)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func printField(label string, value interface{}) {
	fmt.Printf("  %s %v\n", color.New(color.Faint).Sprint(label+":"), value)
}
