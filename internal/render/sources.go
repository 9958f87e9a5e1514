package render

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/tui-platformer/internal/authority"
)

//go:embed theme/*.yaml
var builtinTheme embed.FS

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, name string) ([]byte, error)

// Asset calls f.
func (f SourceFunc) Asset(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// AssetFetcher is the part of the authority client used for resources.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, name string) ([]byte, error)
}

// AuthoritySource serves resources from the authority's /assets namespace.
func AuthoritySource(f AssetFetcher) Source {
	return SourceFunc(func(ctx context.Context, name string) ([]byte, error) {
		data, err := f.FetchAsset(ctx, name)
		if errors.Is(err, authority.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return data, err
	})
}

// DirSource serves <dir>/<name>.yaml files.
func DirSource(dir string) Source {
	return SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name+".yaml"))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return data, err
	})
}

// BuiltinSource serves the theme compiled into the binary.
func BuiltinSource() Source {
	return SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		data, err := builtinTheme.ReadFile("theme/" + name + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return data, nil
	})
}

// ParseSources turns config entries ("server", "builtin", "dir:<path>")
// into sources in the given order.
func ParseSources(specs []string, server AssetFetcher) ([]Source, error) {
	out := make([]Source, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		switch {
		case spec == "server":
			if server == nil {
				continue
			}
			out = append(out, AuthoritySource(server))
		case spec == "builtin":
			out = append(out, BuiltinSource())
		case strings.HasPrefix(spec, "dir:"):
			dir := strings.TrimPrefix(spec, "dir:")
			if dir == "" {
				return nil, errors.New("render: dir source needs a path")
			}
			out = append(out, DirSource(dir))
		default:
			return nil, fmt.Errorf("render: unknown asset source %q", spec)
		}
	}
	return out, nil
}
