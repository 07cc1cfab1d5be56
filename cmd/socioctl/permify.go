package main

import (
	"fmt"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/spf13/cobra"
)

var printOnly bool

var permifyCmd = &cobra.Command{
	Use:   "permify",
	Short: "Manage the Permify authorization schema",
}

var permifySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the opportunity ownership schema to Permify",
	Long: `Writes the schema to the tenant configured by PERMIFY_TENANT and prints
the resulting version. Set PERMIFY_SCHEMA_VERSION to that value to pin the API server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if printOnly {
			fmt.Fprint(cmd.OutOrStdout(), auth.PermifySchema)
			return nil
		}

		cfg := loadConfig()
		if cfg.Permify.Host == "" {
			return fmt.Errorf("PERMIFY_HOST is required")
		}

		authorizer, err := auth.NewPermifyAuthorizer(cfg.Permify.Host, auth.WithTenant(cfg.Permify.Tenant))
		if err != nil {
			return err
		}

		version, err := authorizer.WriteSchema(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "schema version %s written to tenant %s\n", version, cfg.Permify.Tenant)
		return nil
	},
}

func init() {
	permifySchemaCmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema without writing it")

	rootCmd.AddCommand(permifyCmd)
	permifyCmd.AddCommand(permifySchemaCmd)
}
