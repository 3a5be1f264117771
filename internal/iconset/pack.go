package iconset

import (
	"errors"
	"os"
	"os/exec"
)

// DefaultTool is the macOS icon converter.
const DefaultTool = "iconutil"

// A Packer converts a populated .iconset manifest directory into a
// single .icns container next to it and returns the container path.
// The boundary is deliberately narrow (directory in, file out) so an
// in-process encoder can stand in for the platform tool.
type Packer interface {
	Pack(manifestDir string) (string, error)
}

// ToolPacker shells out to the platform converter
// (`iconutil -c icns <dir>`). The converter derives the output file
// name from the directory name, so the produced container appears at
// ContainerPath(manifestDir).
type ToolPacker struct {
	Tool string // command name or path; empty means DefaultTool
}

// Pack runs the converter and verifies its output. Failure kinds:
// ToolUnavailable when the command cannot be found or started,
// ConversionFailed (with exit code and captured output) on non-zero
// exit, and PostconditionFailed when the tool exits 0 without creating
// the container file.
func (p ToolPacker) Pack(manifestDir string) (string, error) {
	tool := p.Tool
	if tool == "" {
		tool = DefaultTool
	}
	bin, err := exec.LookPath(tool)
	if err != nil {
		return "", &Error{Kind: ToolUnavailable, Op: tool + " not found on PATH", Err: err}
	}

	out := ContainerPath(manifestDir)
	cmd := exec.Command(bin, "-c", "icns", manifestDir)
	combined, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &Error{
				Kind:     ConversionFailed,
				Op:       tool + " failed",
				Err:      err,
				ExitCode: exitErr.ExitCode(),
				Output:   string(combined),
			}
		}
		return "", &Error{Kind: ToolUnavailable, Op: tool + " could not run", Err: err}
	}

	// Defend against converter versions that exit 0 without output.
	if _, err := os.Stat(out); err != nil {
		return "", &Error{Kind: PostconditionFailed, Op: "expected " + out, Err: err}
	}
	return out, nil
}
