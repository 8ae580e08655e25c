package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atlas-hq/gatewarden/pkg/admission/capacity"
	"atlas-hq/gatewarden/pkg/config"
)

var validateCapacityFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and capacity files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateCapacityFile, "capacity", "", "capacity table YAML file to validate")
}

func runValidate() error {
	if cfgFile == "" && validateCapacityFile == "" {
		return fmt.Errorf("nothing to validate: pass --config and/or --capacity")
	}

	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("configuration %s is valid\n", cfgFile)

		if validateCapacityFile == "" && cfg.Admission.CapacityFile != "" {
			validateCapacityFile = cfg.Admission.CapacityFile
		}
	}

	if validateCapacityFile != "" {
		table, err := capacity.LoadTable(validateCapacityFile)
		if err != nil {
			return err
		}
		fmt.Printf("capacity table %s is valid: %d tenants, %d users, %d paths\n",
			validateCapacityFile, len(table.Tenants), len(table.Users), len(table.Paths))
	}

	return nil
}
