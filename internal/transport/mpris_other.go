//go:build !linux

package transport

func openPlatform() (Commander, error) {
	return nil, ErrUnavailable
}
