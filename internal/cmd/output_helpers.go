package cmd

import (
	"context"

	"github.com/ThePrior/Navigation/internal/output"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

// printResult prints data in the selected format. The printer applies
// --query, --result-limit and --result-sort-by from ctx.
func printResult(ctx context.Context, data interface{}) error {
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.Print(ctx, data)
}

func printStructured(data interface{}) error {
	return printResult(currentContext(), data)
}

func currentContext() context.Context {
	if rootCmd != nil && rootCmd.Context() != nil {
		return rootCmd.Context()
	}
	return context.Background()
}
