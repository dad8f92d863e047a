package main

import (
	"context"
	"goldenbough/cmd/goldenbough/commands"
	"goldenbough/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext(context.Background())
	commands.ExecuteContext(ctx)
}
