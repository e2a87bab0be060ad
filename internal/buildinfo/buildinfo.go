// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/hirewire/hirewire/internal/buildinfo.Version=1.2.0
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// UserAgent identifies this build in outbound HTTP and WebSocket handshakes.
func UserAgent() string {
	return "hirewire/" + Version
}
