package file

import (
	"context"
	"errors"
	"io"
	gopath "path"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	awsprovider "github.com/yungbote/mrkr-backend/internal/providers/aws"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

// directoryContentType marks folder objects in the bucket. A key may also be
// folder-shaped by carrying a trailing slash in listings.
const directoryContentType = "application/x-directory"

type s3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Provider serves files below a key prefix in an S3 bucket, using
// assumed-role credentials from the shared session.
type S3Provider struct {
	log    *logger.Logger
	cfg    domain.FileProviderConfig
	bucket string
	prefix string

	session *awsprovider.Session
	client  s3API
}

func NewS3Provider(cfg domain.FileProviderConfig, log *logger.Logger) (*S3Provider, error) {
	session, err := awsprovider.NewSession(cfg.AwsConfig, log)
	if err != nil {
		return nil, err
	}
	bucket, err := utils.ResolveString(cfg.AwsBucketName)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeConfigResolution, "resolve bucket name", err)
	}
	prefix, err := utils.ResolveString(strings.Trim(cfg.Path, "/"))
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeConfigResolution, "resolve file provider path", err)
	}
	return &S3Provider{
		log:     log.With("provider", "S3FileProvider"),
		cfg:     cfg,
		bucket:  bucket,
		prefix:  prefix,
		session: session,
	}, nil
}

func (p *S3Provider) Config() domain.FileProviderConfig { return p.cfg }

func (p *S3Provider) api(ctx context.Context) (s3API, error) {
	if p.client != nil {
		return p.client, nil
	}
	client, err := p.session.S3Client(ctx)
	if err != nil {
		return nil, err
	}
	p.client = client
	return p.client, nil
}

func (p *S3Provider) key(path string) string {
	return gopath.Join(p.prefix, strings.Trim(path, "/"))
}

func (p *S3Provider) head(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	client, err := p.api(ctx)
	if err != nil {
		return nil, err
	}
	output, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: awssdk.String(p.bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return nil, domain.NotFound("key '%s' not found", key)
		}
		return nil, domain.NewError(domain.ErrorCodeIO, "head object", err)
	}
	return output, nil
}

func (p *S3Provider) IsFile(ctx context.Context, path string) (bool, error) {
	output, err := p.head(ctx, p.key(path))
	if err != nil {
		if domain.IsCode(err, domain.ErrorCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	contentType := strings.ToLower(awssdk.ToString(output.ContentType))
	return !strings.HasPrefix(contentType, directoryContentType), nil
}

func (p *S3Provider) IsFolder(ctx context.Context, path string) (bool, error) {
	key := p.key(path) + "/"
	output, err := p.head(ctx, key)
	if err == nil {
		contentType := strings.ToLower(awssdk.ToString(output.ContentType))
		if strings.HasPrefix(contentType, directoryContentType) {
			return true, nil
		}
	} else if !domain.IsCode(err, domain.ErrorCodeNotFound) {
		return false, err
	}

	// Buckets without explicit folder objects: any key below the prefix
	// makes it a folder.
	client, err := p.api(ctx)
	if err != nil {
		return false, err
	}
	listed, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  awssdk.String(p.bucket),
		Prefix:  awssdk.String(key),
		MaxKeys: awssdk.Int32(1),
	})
	if err != nil {
		return false, domain.NewError(domain.ErrorCodeIO, "list objects", err)
	}
	return len(listed.Contents) > 0, nil
}

func (p *S3Provider) List(ctx context.Context, path string) (*Iterator, error) {
	p.log.Debug("Listing objects", "path", path)

	client, err := p.api(ctx)
	if err != nil {
		return nil, err
	}

	prefix := p.key(path)
	if prefix != "" {
		prefix += "/"
	}

	var continuation *string
	first := true
	return NewIterator(func(ctx context.Context) ([]string, bool, error) {
		if !first && continuation == nil {
			return nil, false, nil
		}
		first = false
		output, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            awssdk.String(p.bucket),
			Prefix:            awssdk.String(prefix),
			Delimiter:         awssdk.String("/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, false, domain.NewError(domain.ErrorCodeIO, "list objects", err)
		}
		continuation = output.NextContinuationToken
		var names []string
		for _, object := range output.Contents {
			key := awssdk.ToString(object.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			names = append(names, gopath.Base(key))
		}
		return names, continuation != nil, nil
	}), nil
}

func (p *S3Provider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	p.log.Debug("Opening object", "path", path)

	client, err := p.api(ctx)
	if err != nil {
		return nil, err
	}
	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(p.bucket),
		Key:    awssdk.String(p.key(path)),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, domain.NotFound("key '%s' not found", p.key(path))
		}
		return nil, domain.NewError(domain.ErrorCodeIO, "get object", err)
	}
	return output.Body, nil
}
