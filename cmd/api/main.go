package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecoloop/core/cmd/api/commands"
)

// @title EcoLoop API
// @version 1.0
// @description Plastic recycling submissions, company reports and payments

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:          "ecoloop",
		Short:        "EcoLoop recycling server",
		Long:         `EcoLoop records the plastic companies send for recycling, reports it back per company and takes payments for the service.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewPlasticsCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewTransactionsCommand())
	rootCmd.AddCommand(commands.NewHashPasswordCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
