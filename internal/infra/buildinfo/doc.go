// Package buildinfo exposes build information injected via ldflags.
//
//	go build -ldflags "-X github.com/yndnr/docserve-go/internal/infra/buildinfo.Version=v1.0.0"
//
// ServerHeader derives the value of the Server response header from Version.
package buildinfo
