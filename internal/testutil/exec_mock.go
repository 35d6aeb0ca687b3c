// Package testutil holds helpers for tests that shell out to external tools.
package testutil

import (
	"io"
	"os"
	"os/exec"
)

// MockPipeCommand builds a mock exec.Command function that starts the test
// binary as a stand-in for the real tool. The stand-in copies whatever is
// written to its stdin into the file capture and, when fail is set, exits
// with status 1.
func MockPipeCommand(capture string, fail bool) func(string, ...string) *exec.Cmd {
	return func(command string, args ...string) *exec.Cmd {
		// Create a test helper process that will be executed instead of the real command
		cs := []string{"-test.run=TestHelperProcess", "--", command}
		cs = append(cs, args...)
		cmd := exec.Command(os.Args[0], cs...)

		// Set environment variables to control the helper process behavior
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			"MOCK_CAPTURE=" + capture,
		}

		if fail {
			cmd.Env = append(cmd.Env, "MOCK_ERROR=1")
		}

		return cmd
	}
}

// TestHelperProcess is not a real test, it's used by MockPipeCommand.
// It does nothing unless GO_WANT_HELPER_PROCESS is set.
// Every package using MockPipeCommand must call it from a test:
//
//	func TestHelperProcess(t *testing.T) {
//		testutil.TestHelperProcess()
//	}
func TestHelperProcess() {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		os.Exit(2)
	}
	if path := os.Getenv("MOCK_CAPTURE"); path != "" {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			os.Exit(2)
		}
	}

	if os.Getenv("MOCK_ERROR") == "1" {
		os.Exit(1)
	}
	os.Exit(0)
}
