// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/taibuivan/campus/internal/platform/constants"
)

// AppConfig is the part of the configuration CORS reads.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Methods":     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers":     "Accept, Content-Type, Content-Length, Authorization, X-Request-ID",
	"Access-Control-Expose-Headers":    "Content-Length, X-Request-ID",
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Max-Age":           "300",
}

// CORS admits the frontend origins from cfg, or any origin in development.
// Preflight requests are answered with 204 and never reach the router.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	allowed := cfg.AllowedOrigins()
	permits := func(origin string) bool {
		return cfg.IsDevelopment() || slices.Contains(allowed, strings.TrimRight(origin, "/"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if permits(origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				for name, value := range corsHeaders {
					header.Set(name, value)
				}
				header.Add("Vary", constants.HeaderOrigin)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
