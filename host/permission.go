// Package host declares what the filter needs from the device it runs on.
// Platforms implement these; nothing here talks to a platform itself.
package host

import (
	"context"
	"log/slog"
)

type Permission string

const PermissionFineLocation Permission = "ACCESS_FINE_LOCATION"

// PermissionProvider reports whether the application holds a permission.
type PermissionProvider interface {
	HasPermission(ctx context.Context, p Permission) (bool, error)
}

// EnsureLocationPermission reports whether fine location access is granted.
// When it isn't, request is called with the missing permission so the host can ask for it.
// A nil provider is treated as not granted.
func EnsureLocationPermission(ctx context.Context, provider PermissionProvider, request func(Permission)) bool {
	granted := false
	if provider != nil {
		ok, err := provider.HasPermission(ctx, PermissionFineLocation)
		if err != nil {
			slog.Warn("Permission check failed", "permission", PermissionFineLocation, "error", err)
		}
		granted = ok && err == nil
	}
	if !granted && request != nil {
		request(PermissionFineLocation)
	}
	return granted
}
