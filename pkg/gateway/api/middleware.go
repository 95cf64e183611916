// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"

	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/errors"
)

// IPWhitelist rejects peers outside the configured CIDRs or addresses with
// 403. An empty entry list disables filtering. Malformed entries are logged
// and skipped.
func IPWhitelist(entries []string, l logger.Logger) gin.HandlerFunc {
	if len(entries) == 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var nets []*net.IPNet
	var ips []net.IP
	for _, entry := range entries {
		if _, ipnet, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, ipnet)
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
			continue
		}
		l.Warn("Ignoring malformed IP whitelist entry", "entry", entry)
	}

	return func(c *gin.Context) {
		peer := net.ParseIP(clientIP(c))
		if peer != nil {
			for _, ip := range ips {
				if ip.Equal(peer) {
					c.Next()
					return
				}
			}
			for _, ipnet := range nets {
				if ipnet.Contains(peer) {
					c.Next()
					return
				}
			}
		}

		l.Warn("Rejected request from non-whitelisted address", "ip", clientIP(c))
		c.AbortWithStatusJSON(http.StatusForbidden,
			errors.New(errors.ServerIPNotAllowed, clientIP(c)))
	}
}
