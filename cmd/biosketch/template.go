package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/biosketch-checker/internal/templates"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect and check template configurations",
}

var templateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active template",
	Args:  cobra.NoArgs,
	RunE:  runTemplateShow,
}

var templateCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a template file",
	Long:  "Check a template file against the template schema, field rules and semantic rules. Heading variant collisions are reported as warnings.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateCheck,
}

var templateFormat string

func init() {
	templateShowCmd.Flags().StringVar(&templateFormat, "format", "json", "Output format: json or yaml")
	templateCmd.AddCommand(templateShowCmd, templateCheckCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateShow(cmd *cobra.Command, _ []string) error {
	template, err := loadTemplate()
	if err != nil {
		return err
	}

	var out []byte
	switch templateFormat {
	case "json":
		out, err = json.MarshalIndent(template, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(template)
	default:
		return fmt.Errorf("invalid --format %q: use json or yaml", templateFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runTemplateCheck(cmd *cobra.Command, args []string) error {
	template, err := templates.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "OK: %s %s (%d sections)\n", template.Name, template.Version, len(template.AllSections()))
	for _, warning := range templates.Collisions(template) {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}
	return nil
}
