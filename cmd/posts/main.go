// Command posts is the AWS Lambda entry point of the posts API. It is
// configured through environment variables, see internal/config.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/app"
	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/config"
	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/logging"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewStderr(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("Failed to start: %s", err)
		os.Exit(1)
	}

	lambda.StartWithOptions(a.Handler.HandleAPIGatewayV2, lambda.WithEnableSIGTERM(func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Errorf("Failed to close resources: %s", err)
		}
	}))
}
