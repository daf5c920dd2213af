package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration a conversion would use, after merging defaults,
environment, the config file and flags. The output can be saved as
` + configFileName + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(struct {
				Convert Config `yaml:"convert"`
			}{cfg})
			if err != nil {
				return fmt.Errorf("error marshalling YAML: %v", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	// Same flags as a conversion run so their effect can be previewed.
	addRunFlags(configCmd)

	return configCmd
}
