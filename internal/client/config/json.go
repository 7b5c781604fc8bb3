package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskledger/internal/flagx"
	"github.com/dmitrijs2005/taskledger/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "90s" or as integer nanoseconds.
type JsonConfig struct {
	DatabasePath     string         `json:"database_path"`
	LedgerBackend    string         `json:"ledger_backend"`
	RPCURL           string         `json:"rpc_url"`
	ContractAddress  string         `json:"contract_address"`
	ChainID          int64          `json:"chain_id"`
	ConfirmTimeout   timex.Duration `json:"confirm_timeout"`
	FetchConcurrency int            `json:"fetch_concurrency"`
	MutationPolicy   string         `json:"mutation_policy"`
	LogBackend       string         `json:"log_backend"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys missing from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LedgerBackend, jc.LedgerBackend)
	setString(&cfg.RPCURL, jc.RPCURL)
	setString(&cfg.ContractAddress, jc.ContractAddress)
	setString(&cfg.MutationPolicy, jc.MutationPolicy)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.ChainID != 0 {
		cfg.ChainID = jc.ChainID
	}
	if jc.ConfirmTimeout.Duration != 0 {
		cfg.ConfirmTimeout = jc.ConfirmTimeout.Duration
	}
	if jc.FetchConcurrency != 0 {
		cfg.FetchConcurrency = jc.FetchConcurrency
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
