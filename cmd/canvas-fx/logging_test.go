package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp runs the test inside a scratch directory so logs/ never lands in the source tree
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		log.SetOutput(io.Discard)
		os.Chdir(wd)
	})
}

func TestLoggingOffDiscards(t *testing.T) {
	chdirTemp(t)

	if f := setupLogging(false); f != nil {
		f.Close()
		t.Fatal("log file opened without -debug")
	}
	if log.Writer() != io.Discard {
		t.Errorf("logger writes to %v", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Errorf("%s created without -debug", logDir)
	}
}

func TestLoggingDebugWritesFile(t *testing.T) {
	chdirTemp(t)

	f := setupLogging(true)
	if f == nil {
		t.Fatal("no log file with -debug")
	}
	defer f.Close()

	log.Printf("fx: debug line")
	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fx: debug line") {
		t.Errorf("log file = %q", data)
	}
}

func TestLoggingRotatesOversizedFile(t *testing.T) {
	chdirTemp(t)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	current := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(current, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatal(err)
	}

	f := setupLogging(true)
	if f == nil {
		t.Fatal("no log file after rotation")
	}
	defer f.Close()

	rotated, _ := filepath.Glob(filepath.Join(logDir, "canvas-fx-*.log"))
	if len(rotated) != 1 {
		t.Fatalf("rotated files = %v", rotated)
	}
	if info, err := os.Stat(rotated[0]); err != nil || info.Size() != maxLogSize+1 {
		t.Errorf("rotated file lost its contents: %v", err)
	}
	if info, err := os.Stat(current); err != nil || info.Size() > maxLogSize {
		t.Errorf("fresh log not started: %v", err)
	}
}
