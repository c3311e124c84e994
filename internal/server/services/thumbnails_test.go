package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/gophnotes/internal/server/config"
)

func newThumbnailService() *ThumbnailService {
	return NewThumbnailService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
		S3Bucket:       "thumbnails",
	})
}

func stubS3(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000/" {
			t.Fatalf("BaseEndpoint not applied: %v", opts.BaseEndpoint)
		}
		if !opts.UsePathStyle {
			t.Fatalf("path style not enabled")
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestThumbnailService_PresignUpload(t *testing.T) {
	stubS3(t)

	var gotKey, gotBucket string
	var gotExpiry time.Duration
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		gotExpiry = po.Expires
		gotKey = *in.Key
		gotBucket = *in.Bucket
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + *in.Key}, nil
	}

	up, err := newThumbnailService().PresignUpload(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("PresignUpload err: %v", err)
	}
	if !strings.HasPrefix(up.Key, "accounts/acc-1/") {
		t.Fatalf("unexpected key %q", up.Key)
	}
	if gotKey != up.Key || gotBucket != "thumbnails" {
		t.Fatalf("presign input mismatch: key=%q bucket=%q", gotKey, gotBucket)
	}
	if gotExpiry != ThumbnailUploadExpiry {
		t.Fatalf("expiry = %v", gotExpiry)
	}
	if up.UploadURL != "http://signed/"+up.Key {
		t.Fatalf("upload url = %q", up.UploadURL)
	}
	if up.PublicURL != "http://127.0.0.1:9000/thumbnails/"+up.Key {
		t.Fatalf("public url = %q", up.PublicURL)
	}
}

func TestThumbnailService_PresignUpload_Errors(t *testing.T) {
	stubS3(t)

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign-fail")
	}
	if _, err := newThumbnailService().PresignUpload(context.Background(), "acc-1"); err == nil || !strings.Contains(err.Error(), "sign-fail") {
		t.Fatalf("expected sign-fail, got %v", err)
	}

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	if _, err := newThumbnailService().PresignUpload(context.Background(), "acc-1"); err == nil || !strings.Contains(err.Error(), "load-fail") {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

func TestThumbnailKey_Unique(t *testing.T) {
	a, b := ThumbnailKey("x"), ThumbnailKey("x")
	if a == b {
		t.Fatalf("keys collide: %q", a)
	}
}
