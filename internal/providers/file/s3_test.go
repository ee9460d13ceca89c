package file

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
)

// fakeS3 serves a fixed key→(contentType, body) map. Folder objects carry the
// directory content type; missing keys return the typed NotFound errors.
type fakeS3 struct {
	objects  map[string]fakeObject
	pageSize int
}

type fakeObject struct {
	contentType string
	body        string
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	object, ok := f.objects[awssdk.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentType: awssdk.String(object.contentType)}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	object, ok := f.objects[awssdk.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(object.body))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := awssdk.ToString(params.Prefix)
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if params.ContinuationToken != nil {
		for i, key := range keys {
			if key == awssdk.ToString(params.ContinuationToken) {
				start = i
				break
			}
		}
	}
	pageSize := f.pageSize
	if pageSize == 0 {
		pageSize = 1000
	}
	if params.MaxKeys != nil && int(*params.MaxKeys) < pageSize {
		pageSize = int(*params.MaxKeys)
	}
	end := start + pageSize
	if end > len(keys) {
		end = len(keys)
	}

	output := &s3.ListObjectsV2Output{}
	for _, key := range keys[start:end] {
		output.Contents = append(output.Contents, s3types.Object{Key: awssdk.String(key)})
	}
	if end < len(keys) {
		output.NextContinuationToken = awssdk.String(keys[end])
	}
	return output, nil
}

func newS3TestProvider(fake *fakeS3, prefix string) *S3Provider {
	return &S3Provider{
		log:    logger.NewNop().With("provider", "S3FileProvider"),
		bucket: "test-bucket",
		prefix: prefix,
		client: fake,
	}
}

func TestS3Provider_IsFile(t *testing.T) {
	provider := newS3TestProvider(&fakeS3{objects: map[string]fakeObject{
		"docs/a.pdf":   {contentType: "application/pdf"},
		"docs/folder/": {contentType: directoryContentType},
	}}, "docs")
	ctx := context.Background()

	isFile, err := provider.IsFile(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("IsFile failed: %v", err)
	}
	if !isFile {
		t.Fatalf("a.pdf should be a file")
	}

	isFile, err = provider.IsFile(ctx, "missing.pdf")
	if err != nil {
		t.Fatalf("IsFile failed: %v", err)
	}
	if isFile {
		t.Fatalf("missing key must not be a file")
	}
}

func TestS3Provider_IsFolder(t *testing.T) {
	provider := newS3TestProvider(&fakeS3{objects: map[string]fakeObject{
		"docs/explicit/":     {contentType: directoryContentType},
		"docs/implied/x.png": {contentType: "image/png"},
	}}, "docs")
	ctx := context.Background()

	cases := []struct {
		path string
		want bool
	}{
		{"explicit", true},
		{"implied", true}, // no folder object, detected through listing
		{"missing", false},
	}
	for _, tc := range cases {
		got, err := provider.IsFolder(ctx, tc.path)
		if err != nil {
			t.Fatalf("IsFolder(%s) failed: %v", tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("IsFolder(%s) want=%t got=%t", tc.path, tc.want, got)
		}
	}
}

func TestS3Provider_ListPaginatesAndSkipsFolders(t *testing.T) {
	provider := newS3TestProvider(&fakeS3{
		pageSize: 2,
		objects: map[string]fakeObject{
			"docs/a.pdf":  {contentType: "application/pdf"},
			"docs/b.png":  {contentType: "image/png"},
			"docs/c.tiff": {contentType: "image/tiff"},
			"docs/sub/":   {contentType: directoryContentType},
		},
	}, "docs")

	iterator, err := provider.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for iterator.Next(context.Background()) {
		names = append(names, iterator.Name())
	}
	if err := iterator.Err(); err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	sort.Strings(names)
	want := []string{"a.pdf", "b.png", "c.tiff"}
	if len(names) != len(want) {
		t.Fatalf("names want=%v got=%v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names want=%v got=%v", want, names)
		}
	}
}

func TestS3Provider_Open(t *testing.T) {
	provider := newS3TestProvider(&fakeS3{objects: map[string]fakeObject{
		"docs/a.pdf": {contentType: "application/pdf", body: "pdf-bytes"},
	}}, "docs")
	ctx := context.Background()

	stream, err := provider.Open(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()
	content, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(content) != "pdf-bytes" {
		t.Fatalf("content want=%q got=%q", "pdf-bytes", content)
	}

	if _, err := provider.Open(ctx, "missing.pdf"); !domain.IsCode(err, domain.ErrorCodeNotFound) {
		t.Fatalf("want code=%s got=%v", domain.ErrorCodeNotFound, err)
	}
}
