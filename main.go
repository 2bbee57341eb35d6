package main

import "github.com/ayothedoc3/whop-analytics-dashboard/cmd"

func main() {
	cmd.Execute()
}
