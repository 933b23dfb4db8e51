package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/term"
)

// RenderResult describes what a renderer produced. A degraded result
// carries a notice for the user; numeric results are never affected.
type RenderResult struct {
	Artifact string
	Degraded bool
	Notice   string
}

// Renderer produces a visual artifact from benchmark statistics.
type Renderer interface {
	Render(ctx context.Context, stats *Statistics) RenderResult
}

// NoopRenderer is used when chart output is disabled.
type NoopRenderer struct{}

func (NoopRenderer) Render(context.Context, *Statistics) RenderResult {
	return RenderResult{Degraded: true, Notice: "chart rendering disabled"}
}

// HeadlessNotice is reported when the artifact cannot be shown.
const HeadlessNotice = "Could not display plot (running in headless environment)"

var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Display opens path with the platform's default viewer. It only tries when
// stdout is a terminal and never blocks on the viewer.
func Display(ctx context.Context, path string) RenderResult {
	res := RenderResult{Artifact: path}
	if !stdoutIsTerminal() {
		res.Degraded = true
		res.Notice = HeadlessNotice
		return res
	}
	name, args := openerCommand(runtime.GOOS, path)
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		res.Degraded = true
		res.Notice = HeadlessNotice
		return res
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		slog.Debug("opening chart failed", "opener", name, "error", err)
		res.Degraded = true
		res.Notice = fmt.Sprintf("%s: %v", HeadlessNotice, err)
		return res
	}
	go func() { _ = cmd.Wait() }()
	return res
}

func openerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
