package main

import (
	"log"

	"github.com/ovsyannikovas/minio-ranger-gateway/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
	}
}
