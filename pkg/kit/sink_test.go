package kit

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestDirSinkWriteFile(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)

	if err := sink.WriteFile(context.Background(), "socketio/types.ts", []byte("export type Events = {}")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "socketio", "types.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "export type Events = {}" {
		t.Errorf("content = %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "socketio"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestDirSinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewDirSink(t.TempDir()).WriteFile(ctx, "a.ts", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteFile() error = %v, want context.Canceled", err)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkWriteFile(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3Sink(client, "bucket", "generated/")

	if err := sink.WriteFile(context.Background(), "socketio/types.ts", []byte("types")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(client.inputs))
	}
	in := client.inputs[0]
	if aws.ToString(in.Bucket) != "bucket" {
		t.Errorf("Bucket = %q", aws.ToString(in.Bucket))
	}
	if aws.ToString(in.Key) != "generated/socketio/types.ts" {
		t.Errorf("Key = %q", aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/typescript" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if client.bodies[0] != "types" {
		t.Errorf("body = %q", client.bodies[0])
	}
}

func TestS3SinkKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "a.ts", "a.ts"},
		{"p", "/a.ts", "p/a.ts"},
		{"p/", "dir/a.ts", "p/dir/a.ts"},
	}
	for _, tt := range tests {
		if got := NewS3Sink(nil, "b", tt.prefix).Key(tt.name); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestS3SinkError(t *testing.T) {
	boom := errors.New("denied")
	sink := NewS3Sink(&fakeS3{err: boom}, "bucket", "")
	if err := sink.WriteFile(context.Background(), "a.ts", nil); !errors.Is(err, boom) {
		t.Errorf("WriteFile() error = %v, want wrapped denied", err)
	}
}
