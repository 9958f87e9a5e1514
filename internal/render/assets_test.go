package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/vovakirdan/tui-platformer/internal/authority"
	"github.com/vovakirdan/tui-platformer/internal/core"
)

func TestParseSprite(t *testing.T) {
	s, err := ParseSprite([]byte("pattern: \"▓▓\"\nfg: bright_green\nbg: jungle\n"))
	if err != nil {
		t.Fatalf("ParseSprite() failed: %v", err)
	}
	if s.Pattern != "▓▓" || s.Fg != core.ColorBrightGreen || s.Bg != core.ColorJungle {
		t.Errorf("ParseSprite() = %+v", s)
	}

	for _, bad := range []string{"pattern: \"\"\n", "fg: nope\npattern: x\n", "pattern: [unclosed\n"} {
		if _, err := ParseSprite([]byte(bad)); err == nil {
			t.Errorf("ParseSprite(%q) should fail", bad)
		}
	}
}

func TestAssetsPendingBeforeLoad(t *testing.T) {
	a := NewAssets(nil)
	for _, name := range AssetNames {
		if st := a.Status(name); st != StatusPending {
			t.Errorf("Status(%s) = %v, expected pending", name, st)
		}
		if a.Ready(name) {
			t.Errorf("Ready(%s) should be false before Load", name)
		}
	}
	if st := a.Status("unknown"); st != StatusMissing {
		t.Errorf("Status(unknown) = %v, expected missing", st)
	}
}

func TestAssetsLoadBuiltin(t *testing.T) {
	a := NewAssets(nil)
	if err := a.Load(context.Background(), BuiltinSource()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	for _, name := range []string{AssetBackground, AssetPlatform, AssetPlayer, AssetGoal, AssetDoor} {
		if !a.Ready(name) {
			t.Errorf("%s should be ready, status %v", name, a.Status(name))
		}
	}
	if st := a.Status(AssetWall); st != StatusMissing {
		t.Errorf("wall status = %v, expected missing", st)
	}
}

func TestAssetsFirstSourceWins(t *testing.T) {
	first := SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		if name == AssetPlayer {
			return []byte("pattern: \"@@\"\n"), nil
		}
		return nil, ErrAssetNotFound
	})
	broken := SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		if name == AssetGoal {
			return []byte("pattern: \"\"\n"), nil
		}
		return nil, errors.New("network down")
	})

	a := NewAssets(nil)
	if err := a.Load(context.Background(), first, broken, BuiltinSource()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if s, ok := a.Sprite(AssetPlayer); !ok || s.Pattern != "@@" {
		t.Errorf("player = %+v, %v; expected first source", s, ok)
	}
	// An invalid or failing source falls through to the next one.
	if s, ok := a.Sprite(AssetGoal); !ok || s.Pattern != "<>" {
		t.Errorf("goal = %+v, %v; expected builtin", s, ok)
	}
}

func TestAssetsLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := SourceFunc(func(ctx context.Context, _ string) ([]byte, error) {
		return nil, ctx.Err()
	})
	if err := NewAssets(nil).Load(ctx, src); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, expected context.Canceled", err)
	}
}

func TestAssetsLoadsConcurrently(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(_ context.Context, _ string) ([]byte, error) {
		calls.Add(1)
		return []byte("pattern: x\n"), nil
	})
	a := NewAssets(nil)
	if err := a.Load(context.Background(), src); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if int(calls.Load()) != len(AssetNames) {
		t.Errorf("source called %d times, expected %d", calls.Load(), len(AssetNames))
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "door.yaml"), []byte("pattern: \"DD\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := DirSource(dir)
	data, err := src.Asset(context.Background(), "door")
	if err != nil || string(data) != "pattern: \"DD\"\n" {
		t.Errorf("Asset(door) = %q, %v", data, err)
	}
	if _, err := src.Asset(context.Background(), "goal"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Asset(goal) error = %v, expected ErrAssetNotFound", err)
	}
}

type fakeFetcher struct {
	data map[string][]byte
}

func (f fakeFetcher) FetchAsset(_ context.Context, name string) ([]byte, error) {
	if d, ok := f.data[name]; ok {
		return d, nil
	}
	return nil, authority.ErrNotFound
}

func TestAuthoritySourceMapsNotFound(t *testing.T) {
	src := AuthoritySource(fakeFetcher{data: map[string][]byte{"player": []byte("pattern: P\n")}})

	if data, err := src.Asset(context.Background(), "player"); err != nil || string(data) != "pattern: P\n" {
		t.Errorf("Asset(player) = %q, %v", data, err)
	}
	if _, err := src.Asset(context.Background(), "door"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Asset(door) error = %v, expected ErrAssetNotFound", err)
	}
}

func TestParseSources(t *testing.T) {
	srcs, err := ParseSources([]string{"server", "dir:/tmp/theme", "builtin"}, fakeFetcher{})
	if err != nil {
		t.Fatalf("ParseSources() failed: %v", err)
	}
	if len(srcs) != 3 {
		t.Errorf("got %d sources, expected 3", len(srcs))
	}

	// Without a server the server entry is skipped.
	srcs, err = ParseSources([]string{"server", "builtin"}, nil)
	if err != nil || len(srcs) != 1 {
		t.Errorf("ParseSources(no server) = %d sources, %v", len(srcs), err)
	}

	for _, bad := range []string{"ftp", "dir:"} {
		if _, err := ParseSources([]string{bad}, nil); err == nil {
			t.Errorf("ParseSources(%q) should fail", bad)
		}
	}
}
