package main

import "github.com/advanced-security/security-report-action/cmd"

func main() {
	cmd.Execute()
}
