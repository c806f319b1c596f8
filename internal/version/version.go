// Package version carries the build version, set at link time:
//
//	go build -ldflags "-X genoparse/internal/version.Version=v1.2.3" ./cmd/genoparse
package version

var Version = "dev"
