// Package workflow owns the composite export: stage the manifest into a
// temporary .iconset directory, pack it into a container, move the
// container to its final path, and always clean up the staging
// directory.
package workflow

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gambadio/icon-pelikan/internal/iconset"
	"github.com/gambadio/icon-pelikan/internal/paths"
)

// State tracks the export through its lifecycle:
// Idle → Staging → Converting → {Succeeded, Failed} → CleanedUp.
// Cleanup runs after both terminal states and never changes the result.
type State int

const (
	Idle State = iota
	Staging
	Converting
	Succeeded
	Failed
	CleanedUp
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Staging:
		return "staging"
	case Converting:
		return "converting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case CleanedUp:
		return "cleaned up"
	default:
		return "unknown"
	}
}

// Logf receives best-effort progress and cleanup diagnostics. Never
// called with the primary result; may be nil.
type Logf func(format string, args ...any)

// Export runs the composite workflow for a composed canvas: manifest
// staging, packing via packer, and a move of the produced container to
// destPath when it differs from the packer's default output location.
// The staging directory is removed on every path out, success or
// failure; cleanup errors go to logf only, so they can never mask the
// primary result. There is no retry and no cancellation once the
// converter is running.
func Export(canvas image.Image, destPath string, packer iconset.Packer, logf Logf) (string, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	state := Idle
	transition := func(next State) {
		state = next
		logf("export: %s", state)
	}

	tmp, err := os.MkdirTemp("", "icon-pelikan-*")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			logf("export: cleanup of %s failed: %v", tmp, err)
		}
		transition(CleanedUp)
	}()

	// Name the staged manifest after the destination so the converter
	// derives the matching container name.
	base := strings.TrimSuffix(filepath.Base(destPath), paths.ContainerExt)
	stage := filepath.Join(tmp, base+paths.IconsetExt)

	transition(Staging)
	if _, err := iconset.ExportManifest(canvas, stage); err != nil {
		transition(Failed)
		return "", err
	}

	transition(Converting)
	produced, err := packer.Pack(stage)
	if err != nil {
		transition(Failed)
		return "", err
	}

	if produced != destPath {
		if err := moveFile(produced, destPath); err != nil {
			transition(Failed)
			return "", fmt.Errorf("move container to %s: %w", destPath, err)
		}
	}

	transition(Succeeded)
	return destPath, nil
}

// moveFile renames src to dst, falling back to copy+remove when the
// rename crosses filesystems (staging lives in os.TempDir, which may
// be a different mount than the destination).
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), paths.DirPerm); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.FilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
