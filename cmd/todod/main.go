// todod serves an in-memory todo list over HTTP.
package main

import "github.com/getmockd/todod/pkg/cli"

func main() {
	cli.Execute()
}
