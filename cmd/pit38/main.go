// Command pit38 converts broker and bank exports into manual trade and income
// files.
package main

import "github.com/pit38-assistant/community/cmd"

func main() {
	cmd.Execute()
}
