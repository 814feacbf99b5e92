package cmd

import (
	"strings"
	"testing"
)

func TestNewLoginCmd(t *testing.T) {
	loginCmd := newLoginCmd()

	if loginCmd.Use != "login" {
		t.Errorf("Expected Use to be 'login', got %s", loginCmd.Use)
	}

	if loginCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if !strings.Contains(loginCmd.Long, "user-agent flow") {
		t.Error("Expected Long description to mention the user-agent flow")
	}

	if loginCmd.RunE == nil {
		t.Error("Expected RunE function to be set")
	}
}

func TestNewLogoutCmd(t *testing.T) {
	logoutCmd := newLogoutCmd()

	if logoutCmd.Use != "logout" {
		t.Errorf("Expected Use to be 'logout', got %s", logoutCmd.Use)
	}

	if logoutCmd.RunE == nil {
		t.Error("Expected RunE function to be set")
	}
}

func TestNewWhoamiCmd(t *testing.T) {
	whoamiCmd := newWhoamiCmd()

	if whoamiCmd.Use != "whoami" {
		t.Errorf("Expected Use to be 'whoami', got %s", whoamiCmd.Use)
	}

	if !strings.Contains(whoamiCmd.Long, "never opens a browser") {
		t.Error("Expected Long description to state that whoami never opens a browser")
	}

	if whoamiCmd.RunE == nil {
		t.Error("Expected RunE function to be set")
	}
}
