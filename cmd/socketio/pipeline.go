package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/socketio/internal/config"
	"github.com/vango-dev/socketio/pkg/integration"
	"github.com/vango-dev/socketio/pkg/kit"
)

// pipeline is a kit with the socket module set up from socketio.json.
type pipeline struct {
	cfg    *config.Config
	kit    *kit.Kit
	module *integration.Module
}

func loadPipeline() (*pipeline, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newPipeline(cfg)
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	sinks := []kit.Sink{kit.NewDirSink(cfg.OutputPath())}
	if cfg.Output.S3.Bucket != "" {
		sinks = append(sinks, kit.NewS3Sink(newS3Client(cfg.Output.S3), cfg.Output.S3.Bucket, cfg.Output.S3.Prefix))
	}

	k := kit.New(kit.Options{
		Root:    cfg.Dir(),
		Package: cfg.PackageName(),
		Sinks:   sinks,
		Logger:  slog.Default(),
	})

	m, err := integration.Setup(k, integration.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &pipeline{cfg: cfg, kit: k, module: m}, nil
}

func (p *pipeline) generate(ctx context.Context) error {
	return p.kit.Templates.Update(ctx)
}

func (p *pipeline) close() {
	p.module.Close()
}

// newS3Client builds an S3 client from socketio.json. Credentials come from
// the standard AWS environment variables.
func newS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
					SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
					SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
					Source:          "environment",
				}, nil
			},
		)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}
