package notify

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/manav03panchal/taskflow/internal/logging"
)

// Dispatcher fans a notification out to several platforms.
// It is itself a Platform, so the scheduler sees a single service.
type Dispatcher struct {
	platforms []Platform
}

// NewDispatcher creates a dispatcher over the supported platforms.
func NewDispatcher(platforms ...Platform) *Dispatcher {
	d := &Dispatcher{}
	for _, p := range platforms {
		if p != nil && p.Supported() {
			d.platforms = append(d.platforms, p)
		}
	}
	return d
}

// Platforms returns the supported platforms.
func (d *Dispatcher) Platforms() []Platform {
	return d.platforms
}

// Name implements Platform.
func (d *Dispatcher) Name() string {
	return "dispatcher"
}

// Supported reports whether any platform is supported.
func (d *Dispatcher) Supported() bool {
	return len(d.platforms) > 0
}

// Permission is granted when any platform is granted.
func (d *Dispatcher) Permission() Permission {
	result := PermissionDenied
	for _, p := range d.platforms {
		switch p.Permission() {
		case PermissionGranted:
			return PermissionGranted
		case PermissionDefault:
			result = PermissionDefault
		}
	}
	return result
}

// RequestPermission asks every platform in turn.
func (d *Dispatcher) RequestPermission(ctx context.Context) (Permission, error) {
	result := PermissionDenied
	var errs []error
	for _, p := range d.platforms {
		perm, err := p.RequestPermission(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if perm == PermissionGranted {
			result = PermissionGranted
		}
	}
	return result, stderrors.Join(errs...)
}

// Show sends to every granted platform concurrently.
func (d *Dispatcher) Show(ctx context.Context, title, body string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(d.platforms))

	for i, p := range d.platforms {
		if p.Permission() != PermissionGranted {
			continue
		}
		wg.Add(1)
		go func(idx int, p Platform) {
			defer wg.Done()
			if err := p.Show(ctx, title, body); err != nil {
				logging.WarnContext(ctx, "notification failed",
					logging.KeyPlatform, p.Name(),
					logging.KeyError, err.Error(),
				)
				errs[idx] = err
			}
		}(i, p)
	}

	wg.Wait()
	return stderrors.Join(errs...)
}
