// Command igmguesses is an interactive tool for building first-guess
// absorption components on a quasar spectrum.
package main

import "github.com/papapumpkin/igmguesses/cmd"

func main() {
	cmd.Execute()
}
