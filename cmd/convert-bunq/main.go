// Command convert-bunq converts a bunq statement export into a manual income
// CSV file:
//
//	go run github.com/pit38-assistant/community/cmd/convert-bunq@latest input.csv output.csv
package main

import (
	"os"

	"github.com/pit38-assistant/community/cmd"
)

func main() {
	cmd.ExecuteArgs(append([]string{"bunq"}, os.Args[1:]...))
}
