package kit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink receives generated files.
type Sink interface {
	WriteFile(ctx context.Context, name string, data []byte) error
}

// DirSink writes generated files below a local directory.
type DirSink struct {
	Dir string
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

// WriteFile writes data to Dir/name, creating parent directories. The file
// is replaced atomically so a concurrent compiler never sees a partial file.
func (s *DirSink) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// S3PutObjectAPI is the subset of *s3.Client used by S3Sink.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink mirrors generated files to an S3 bucket, e.g. so a separately
// deployed frontend can fetch the generated event types.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1", Credentials: creds})
//	sink := kit.NewS3Sink(client, "my-bucket", "socketio/")
type S3Sink struct {
	client S3PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink creates a sink writing to bucket under prefix.
func NewS3Sink(client S3PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// WriteFile uploads data as prefix+name.
func (s *S3Sink) WriteFile(ctx context.Context, name string, data []byte) error {
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}

// Key returns the object key for a generated file name.
func (s *S3Sink) Key(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".ts":
		return "application/typescript"
	case ".go":
		return "text/x-go; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
