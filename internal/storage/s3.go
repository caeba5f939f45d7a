package storage

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

// s3API is the subset of the S3 client the storage layer uses, extracted so
// tests can substitute a fake.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Provider reads the dataset from an S3 object. The client is built
// lazily from the default credential chain on first use.
type S3Provider struct {
	Bucket string
	Key    string

	Client s3API

	once sync.Once
	err  error
}

// Fetch downloads the object contents.
func (p *S3Provider) Fetch(ctx context.Context) ([]byte, error) {
	client, err := p.client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(p.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", p.Bucket, p.Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", p.Bucket, p.Key, err)
	}
	return data, nil
}

func (p *S3Provider) String() string {
	return fmt.Sprintf("s3://%s/%s", p.Bucket, p.Key)
}

func (p *S3Provider) client(ctx context.Context) (s3API, error) {
	p.once.Do(func() {
		if p.Client != nil {
			return
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			p.err = fmt.Errorf("failed to load aws config: %w", err)
			return
		}
		p.Client = s3.NewFromConfig(cfg)
	})
	return p.Client, p.err
}

// S3Sink uploads results into an S3 bucket.
type S3Sink struct {
	Bucket string

	Client s3API

	once sync.Once
	err  error
}

// Store uploads the result, overwriting any existing object.
func (s *S3Sink) Store(ctx context.Context, name string, content []byte, contentType string) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.Bucket, name, err)
	}
	return nil
}

func (s *S3Sink) client(ctx context.Context) (s3API, error) {
	s.once.Do(func() {
		if s.Client != nil {
			return
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			s.err = fmt.Errorf("failed to load aws config: %w", err)
			return
		}
		s.Client = s3.NewFromConfig(cfg)
	})
	return s.Client, s.err
}
