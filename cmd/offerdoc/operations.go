package main

import (
	"fmt"

	"github.com/fwojciec/offerdoc/expr"
)

// Run executes the operations command.
func (c *OperationsCmd) Run(deps *Dependencies) error {
	for _, name := range expr.Operations() {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
