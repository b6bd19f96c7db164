package main

import (
	"compliance-portal/internal/adapter/repository/mysql"
	"compliance-portal/internal/usecase/organization"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed the organization roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.close()
			orgs := organization.NewUsecase(mysql.NewOrganizationRepository(e.db), e.log)
			return migrate(cmd.Context(), e, orgs.Seed)
		},
	}
}
