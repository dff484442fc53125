package main

import "testing"

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version must not be empty")
	}
	if GitCommit == "" {
		t.Error("GitCommit must not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate must not be empty")
	}
}

func TestVersionCommandRegistered(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "version" {
			return
		}
	}
	t.Error("version command not registered on root")
}
