// Command localauthority is the thin CLI surface exposing the decision
// engine's two entry points plus ambient devtools (spec.md §6,
// SPEC_FULL.md §6).
package main

import "github.com/polkit-go/localauthority/cmd/localauthority/cmd"

func main() {
	cmd.Execute()
}
