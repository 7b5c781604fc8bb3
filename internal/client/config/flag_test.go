package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-d", "/tmp/t.db", "-l", "ethereum", "-r", "http://127.0.0.1:9545",
			"-k", "0x5FbDB2315678afecb367f032d93F642f64180aa3", "-chain", "31337", "-t", "10", "-f", "8", "-m", "reject",
			"-log", "zap", "-v", "debug"}, expectPanic: false,
			expected: &Config{DatabasePath: "/tmp/t.db", LedgerBackend: "ethereum", RPCURL: "http://127.0.0.1:9545",
				ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3", ChainID: 31337, ConfirmTimeout: 10 * time.Second,
				FetchConcurrency: 8, MutationPolicy: "reject", LogBackend: "zap", LogLevel: "debug"}},
		{name: "Test2 unrelated flags ignored", args: []string{"cmd", "-c", "conf.json", "-t", "5"}, expectPanic: false,
			expected: &Config{ConfirmTimeout: 5 * time.Second}},
		{name: "Test3 incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
