package main

import "github.com/EO-DataHub/eodhp-staff-directory/cmd"

func main() {
	cmd.Execute()
}
