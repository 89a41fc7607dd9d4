package main

import "context"

func main() {
	ctx := context.Background()

	CustomizeHelp(rootCmd)
	ExecuteContext(ctx)
}
