package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"forcectl/internal/auth"
	"forcectl/internal/rest"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "forcectl" {
		t.Errorf("Expected Use to be 'forcectl', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}

	// Set the same version template as in Execute()
	testCmd.SetVersionTemplate(`{{printf "forcectl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	output := buf.String()
	expected := "forcectl version 1.0.0\n"
	if output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	expectedCommands := []string{"version", "self-update", "login", "logout", "whoami", "query"}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
		{
			name: "unauthorized",
			err:  rest.ErrUnauthorized,
			want: ExitCodeAuthRequired,
		},
		{
			name: "wrapped unauthorized",
			err:  fmt.Errorf("failed to fetch identity: %w", rest.ErrUnauthorized),
			want: ExitCodeAuthRequired,
		},
		{
			name: "authorization canceled",
			err:  auth.ErrAuthorizationCanceled,
			want: ExitCodeAuthFailed,
		},
		{
			name: "malformed authorization response",
			err:  &auth.MalformedResponseError{Reason: "state mismatch"},
			want: ExitCodeAuthFailed,
		},
		{
			name: "wrapped malformed response",
			err:  fmt.Errorf("login failed: %w", &auth.MalformedResponseError{Reason: "missing access_token"}),
			want: ExitCodeAuthFailed,
		},
		{
			name: "resource error",
			err:  &rest.ResourceError{StatusCode: 404, ErrorCode: "NOT_FOUND"},
			want: ExitCodeError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := getExitCode(tc.err); got != tc.want {
				t.Errorf("Expected exit code %d, got %d", tc.want, got)
			}
		})
	}
}
