/*
Package dsl provides a fluent builder for programmatically constructing
framelight prototypes.

It lets tests and host applications define frames, interactions, and
variables in type-safe Go instead of external YAML files, with IDE
autocompletion and compile-time checking.

Example usage:

	package main

	import (
		"time"

		"github.com/framelight/framelight/pkg/domain"
		"github.com/framelight/framelight/pkg/dsl"
	)

	func main() {
		proto := dsl.New("home")

		proto.Frame("home").
			Named("Home").
			On(domain.TriggerClick).Navigate("detail")

		proto.Frame("splash").
			AfterDelay(2 * time.Second).Navigate("home")

		proto.Frame("detail").
			On(domain.TriggerClick).Back()

		proto.Variable("logged_in", domain.VarBoolean, false)

		// The result implements ports.PrototypeSource.
		source, _ := proto.Build()
		_ = source
	}
*/
package dsl
