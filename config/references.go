// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var configDir string // Directory for configuration files

func init() {
	if os.Geteuid() == 0 {
		configDir = "/etc/minio-ranger-gateway"
		return
	}

	// Otherwise, use user config directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}

	configDir = filepath.Join(homeDir, ".minio-ranger-gateway")
}

// GetConfigDir returns the appropriate configuration directory.
// If running as root, it returns the system config directory,
// otherwise the user config directory.
func GetConfigDir() string {
	return configDir
}
