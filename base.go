/*
 *  base.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import (
	"os"

	logging "github.com/op/go-logging"
)

const (
	// Version is the current version of iCount
	Version = "0.1.0"
	// DefaultMapqTh keeps all hits regardless of mapping quality
	DefaultMapqTh = 0
	// DefaultMultimax is the maximum number of mapped places before a hit is ignored
	DefaultMultimax = 50
	// DefaultMismatches is the barcode clustering tolerance
	DefaultMismatches = 2
	// DefaultHolesizeTh is the hole size above which an unannotated split read is strange
	DefaultHolesizeTh = 4
)

var log = logging.MustGetLogger("icount")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// min gets the minimum for two ints
func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// max gets the maximum for two ints
func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
