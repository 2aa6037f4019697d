package codec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultFFmpegPath is used when no encoder path is configured.
const DefaultFFmpegPath = "ffmpeg"

// runTool executes an external command and waits for it. Stderr is
// captured and folded into the returned error, since encoder diagnostics
// only show up there.
func runTool(ctx context.Context, path string, args ...string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := formatStderr(stderr.Bytes()); msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrExternalTool, filepath.Base(path), err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrExternalTool, filepath.Base(path), err)
	}
	return nil
}

// formatStderr collapses tool output to a single line for error messages.
func formatStderr(b []byte) string {
	s := strings.TrimSpace(string(b))
	s = strings.ReplaceAll(s, "\n", "; ")
	const maxLen = 300
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
