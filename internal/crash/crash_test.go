/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "mapstyle Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
	if strings.Contains(s, "Command:") {
		t.Fatalf("no invocation given, command line should be absent: %s", s)
	}
}

func TestWriteReportUsesInvocation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	inv := &Invocation{Command: "swatch", Args: []string{"line", "red:2px", "out.png"}, ReportDir: dir}
	path, err := writeReport(inv, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected report under %s, got %s", dir, path)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "Command: swatch line red:2px out.png") {
		t.Fatalf("command line missing: %s", b)
	}
}

func TestRecoverWritesReportAndExits(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	func() {
		defer Recover(&Invocation{Command: "parse", ReportDir: dir})
		panic("boom")
	}()

	files, _ := os.ReadDir(dir)
	var found string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "mapstyle-crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(dir, f.Name())
		}
	}
	if found == "" {
		t.Fatalf("expected crash report file in %s", dir)
	}
	if b, _ := os.ReadFile(found); !strings.Contains(string(b), "Panic: boom") {
		t.Fatalf("report does not contain panic: %s", b)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("exit called without a panic")
	}
}
