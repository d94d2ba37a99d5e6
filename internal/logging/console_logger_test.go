package logging

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

// newBufferLogger builds a ConsoleLogger writing into a buffer instead
// of stderr.
func newBufferLogger(verbose bool) (*ConsoleLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &ConsoleLogger{out: &buf, verbose: verbose}, &buf
}

func TestNewConsoleLogger_TargetsStderr(t *testing.T) {
	logger := NewConsoleLogger(false)
	if logger.out != os.Stderr {
		t.Error("Expected the default logger to write to stderr")
	}
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	logger, buf := newBufferLogger(true)
	logger.Verbose("test message: %s", "value")

	expected := "[VERBOSE] test message: value\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	logger, buf := newBufferLogger(false)
	logger.Verbose("test message: %s", "value")

	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	logger, buf := newBufferLogger(false)
	logger.Info("info message: %s", "value")

	expected := "info message: value\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	logger, buf := newBufferLogger(false)
	logger.Error("error message: %s", "value")

	expected := "[ERROR] error message: value\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_NoFormatArgs(t *testing.T) {
	logger, buf := newBufferLogger(false)
	logger.Info("plain message with 100%% literal percent")

	expected := "plain message with 100%% literal percent\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	logger, buf := newBufferLogger(true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 30 {
		t.Errorf("Expected 30 lines, got %d", len(lines))
	}

	// Each line should be complete, never interleaved
	for i, line := range lines {
		if !strings.Contains(line, "message") && !strings.Contains(line, "verbose") && !strings.Contains(line, "error") {
			t.Errorf("Line %d appears corrupted: %q", i, line)
		}
	}
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}

	// Should complete without panic
	wg.Wait()
}
