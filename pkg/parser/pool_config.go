package parser

import (
	"github.com/gnana997/uidocgen/pkg/util"
)

// getPoolSize returns the number of parsers kept per grammar.
//
// It must match the workspace worker count, otherwise workers block on parser
// acquisition. An override of 0 means the CPU-derived default.
func getPoolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
