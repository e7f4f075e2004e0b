// Command syscerts reports and exports the certificates trusted by the host
// and the configured certificate paths.
package main

import "github.com/princespaghetti/syscerts/internal/cli"

func main() {
	cli.Execute()
}
