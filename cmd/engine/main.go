package main

import "github.com/reelbeat/reelbeat-engine/internal/cli"

func main() {
	cli.Main()
}
