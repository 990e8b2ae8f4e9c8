// Package sdnotify reports daemon lifecycle to systemd when running under a
// Type=notify unit. Outside systemd every call is a silent no-op.
package sdnotify

import (
	"github.com/coreos/go-systemd/v22/daemon"
)

// Ready tells systemd the daemon finished starting up.
// Returns false when no notification socket is available.
func Ready() bool {
	ok, _ := daemon.SdNotify(false, daemon.SdNotifyReady)
	return ok
}

// Stopping tells systemd a shutdown has begun.
func Stopping() bool {
	ok, _ := daemon.SdNotify(false, daemon.SdNotifyStopping)
	return ok
}
