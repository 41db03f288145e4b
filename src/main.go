package main

import (
	"github.com/feralaibot/Feral-Ai-website/src/cmd"
)

// main 程序入口, go run ./src serve 启动 http api
func main() {
	cmd.Execute()
}
