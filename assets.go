package folio

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoAssetResolver is wrapped by a *MissingAssetError when the Site
	// has no way to resolve asset names at all.
	ErrNoAssetResolver = errors.New("no asset resolver configured")

	// ErrUnknownAsset is wrapped by a *MissingAssetError when a resolver
	// doesn't know the requested logical name.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrEmptyAssetURL is wrapped by a *MissingAssetError when a resolver
	// returns an empty URL without an error.
	ErrEmptyAssetURL = errors.New("asset resolved to an empty URL")
)

// AssetResolver turns a logical asset name, like "css/globals.css", into a
// URL that can be served to browsers. Sites can implement it to make {{
// .Asset }} and the Asset field of CSSLink and JSLink work.
type AssetResolver interface {
	ResolveAsset(ctx context.Context, name string) (string, error)
}

// AssetResolverFunc adapts a function to the AssetResolver interface.
type AssetResolverFunc func(ctx context.Context, name string) (string, error)

// ResolveAsset calls f.
func (f AssetResolverFunc) ResolveAsset(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// AssetMap is an AssetResolver backed by a fixed map of logical names to
// URLs.
type AssetMap map[string]string

// ResolveAsset returns the URL stored for name.
func (m AssetMap) ResolveAsset(_ context.Context, name string) (string, error) {
	url, ok := m[name]
	if !ok {
		return "", &MissingAssetError{Name: name, Err: ErrUnknownAsset}
	}
	return url, nil
}

// MissingAssetError is returned when a logical asset name referenced while
// rendering can't be resolved to a URL.
type MissingAssetError struct {
	Name string
	Err  error
}

func (e *MissingAssetError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("missing asset %q", e.Name)
	}
	return fmt.Sprintf("missing asset %q: %s", e.Name, e.Err)
}

func (e *MissingAssetError) Unwrap() error {
	return e.Err
}

// resolveAsset looks name up through the Site. Every failure comes back as a
// *MissingAssetError, so callers only need one errors.As.
func resolveAsset(ctx context.Context, site Site, name string) (string, error) {
	resolver, ok := site.(AssetResolver)
	if !ok {
		return "", &MissingAssetError{Name: name, Err: ErrNoAssetResolver}
	}
	url, err := resolver.ResolveAsset(ctx, name)
	if err != nil {
		var missing *MissingAssetError
		if errors.As(err, &missing) {
			return "", err
		}
		return "", &MissingAssetError{Name: name, Err: err}
	}
	if url == "" {
		return "", &MissingAssetError{Name: name, Err: ErrEmptyAssetURL}
	}
	return url, nil
}
