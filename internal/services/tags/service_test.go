package tags

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cubby/internal/logging"
	"cubby/internal/services"
)

func writeFakeTag(t *testing.T, script string) (binary, argsLog string) {
	t.Helper()
	dir := t.TempDir()
	binary = filepath.Join(dir, "tag")
	argsLog = filepath.Join(dir, "args.log")
	body := "#!/bin/sh\necho \"$@\" >> " + argsLog + "\n" + script + "\n"
	if err := os.WriteFile(binary, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake tag: %v", err)
	}
	return binary, argsLog
}

func TestApplyRemovesThenAdds(t *testing.T) {
	binary, argsLog := writeFakeTag(t, "exit 0")
	svc := NewCLI(binary, logging.NewNop())

	if err := svc.Apply(context.Background(), "/tmp/Manual", "Manual", "red"); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	data, err := os.ReadFile(argsLog)
	if err != nil {
		t.Fatalf("read args log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 invocations, got %d: %q", len(lines), lines)
	}
	if lines[0] != "-r Manual /tmp/Manual" {
		t.Fatalf("first invocation = %q, want removal", lines[0])
	}
	if lines[1] != "-a Manual,red /tmp/Manual" {
		t.Fatalf("second invocation = %q, want addition", lines[1])
	}
}

func TestApplyWithoutColor(t *testing.T) {
	binary, argsLog := writeFakeTag(t, "exit 0")
	svc := NewCLI(binary, logging.NewNop())

	if err := svc.Apply(context.Background(), "/tmp/Review", "Review", ""); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	data, err := os.ReadFile(argsLog)
	if err != nil {
		t.Fatalf("read args log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if got := lines[len(lines)-1]; got != "-a Review /tmp/Review" {
		t.Fatalf("addition = %q, want bare tag name", got)
	}
}

func TestApplyFailureWrapsExternalTool(t *testing.T) {
	binary, _ := writeFakeTag(t, "echo boom >&2; exit 1")
	svc := NewCLI(binary, logging.NewNop())

	err := svc.Apply(context.Background(), "/tmp/Manual", "Manual", "red")
	if err == nil {
		t.Fatal("Apply() should fail when tag -a exits non-zero")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("Apply() error = %v, want ErrExternalTool marker", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Apply() error should carry command output, got %q", err)
	}
}

func TestRemove(t *testing.T) {
	binary, argsLog := writeFakeTag(t, "exit 0")
	svc := NewCLI(binary, logging.NewNop())

	if err := svc.Remove(context.Background(), "/tmp/Manual", "Manual"); err != nil {
		t.Fatalf("Remove() = %v", err)
	}

	data, err := os.ReadFile(argsLog)
	if err != nil {
		t.Fatalf("read args log: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "-r Manual /tmp/Manual" {
		t.Fatalf("Remove() invocation = %q", got)
	}
}

func TestNoopService(t *testing.T) {
	svc := NewNoop()
	if svc.Available() {
		t.Fatal("noop service must report unavailable")
	}
	if err := svc.Apply(context.Background(), "/x", "Manual", "red"); err != nil {
		t.Fatalf("noop Apply() = %v", err)
	}
	if err := svc.Remove(context.Background(), "/x", "Manual"); err != nil {
		t.Fatalf("noop Remove() = %v", err)
	}
}
