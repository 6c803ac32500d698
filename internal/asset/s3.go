package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the strategy needs.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Strategy reads and writes CSV or JSON objects in S3. The api field
// selects the format; args.bucket and args.key locate the object. The AWS
// client initializes lazily from the default credential chain on first use.
type S3Strategy struct {
	mu     sync.Mutex
	api    S3API
	newAPI func(ctx context.Context) (S3API, error)
}

// NewS3Strategy creates the S3 strategy with the default AWS configuration.
func NewS3Strategy() *S3Strategy {
	return &S3Strategy{
		newAPI: func(ctx context.Context) (S3API, error) {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("loading AWS config: %w", err)
			}
			return s3.NewFromConfig(cfg), nil
		},
	}
}

func (s *S3Strategy) client(ctx context.Context) (S3API, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.api == nil {
		api, err := s.newAPI(ctx)
		if err != nil {
			return nil, err
		}
		s.api = api
	}
	return s.api, nil
}

func (s *S3Strategy) Read(ctx context.Context, in *Input, columns []string) (*Table, error) {
	bucket, key, err := objectArgs(in.Args)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	api, err := s.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	obj, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("input %q: s3 get s3://%s/%s: %w", in.Name, bucket, key, err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	tbl, err := decodeFormat(in.API, data)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}
	return tbl.Select(columns)
}

func (s *S3Strategy) Write(ctx context.Context, out *Output, tbl *Table) error {
	bucket, key, err := objectArgs(out.Args)
	if err != nil {
		return fmt.Errorf("output %q: %w", out.Name, err)
	}

	data, err := encodeFormat(out.API, tbl)
	if err != nil {
		return fmt.Errorf("output %q: %w", out.Name, err)
	}

	api, err := s.client(ctx)
	if err != nil {
		return fmt.Errorf("output %q: %w", out.Name, err)
	}

	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("output %q: s3 put s3://%s/%s: %w", out.Name, bucket, key, err)
	}
	return nil
}

func objectArgs(args map[string]any) (bucket, key string, err error) {
	bucket, err = stringArg(args, "bucket")
	if err != nil {
		return "", "", err
	}
	key, err = stringArg(args, "key")
	if err != nil {
		return "", "", err
	}
	return bucket, key, nil
}
