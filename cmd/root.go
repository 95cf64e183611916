package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ovsyannikovas/minio-ranger-gateway/cmd/config"
	"github.com/ovsyannikovas/minio-ranger-gateway/cmd/health"
	"github.com/ovsyannikovas/minio-ranger-gateway/cmd/logs"
	"github.com/ovsyannikovas/minio-ranger-gateway/cmd/serve"
	"github.com/ovsyannikovas/minio-ranger-gateway/cmd/status"
	"github.com/ovsyannikovas/minio-ranger-gateway/cmd/version"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minio-ranger-gateway",
		Short: "MinIO-Ranger Gateway: S3 authorization against Apache Ranger policies",
	}

	rootCmd.AddCommand(serve.NewServeCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(health.NewHealthCmd())
	rootCmd.AddCommand(status.NewStatusCmd())
	rootCmd.AddCommand(logs.NewLogsCmd())
	rootCmd.AddCommand(config.NewConfigCmd())

	return rootCmd
}
