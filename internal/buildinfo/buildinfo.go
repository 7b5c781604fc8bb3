// Package buildinfo holds version data injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/taskledger/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"cmp"
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// PrintBuildData writes version, date and commit to w, "N/A" for unset values.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", cmp.Or(buildVersion, "N/A"))
	fmt.Fprintf(w, "Build date: %s\n", cmp.Or(buildDate, "N/A"))
	fmt.Fprintf(w, "Build commit: %s\n", cmp.Or(buildCommit, "N/A"))
}
