package main

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBuildVersion(t *testing.T) {
	defer func() {
		Version = ""
		CommitSHA = ""
	}()

	Version = ""
	CommitSHA = ""
	assert.Equal(t, buildVersion(), "dev")

	Version = "1.2.0"
	CommitSHA = ""
	assert.Equal(t, buildVersion(), "1.2.0")

	Version = "1.2.0"
	CommitSHA = "abc1234"
	assert.Equal(t, buildVersion(), "1.2.0 (abc1234)")
}
