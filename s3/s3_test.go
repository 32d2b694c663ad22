package s3

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	mock.Mock
	s3iface.S3API
	body string
}

func (c *mockS3Client) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	blob, _ := ioutil.ReadAll(input.Body)
	c.body = string(blob)
	args := c.Called(aws.StringValue(input.Bucket), aws.StringValue(input.Key), aws.StringValue(input.ContentType))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func TestObjectStorageImpl_Upload(t *testing.T) {
	const want = "Hello world!"

	m := &mockS3Client{}
	m.On("PutObjectWithContext", "foo", "bar/my_location_qr.png", "image/png").Return(nil)
	client := &ObjectStorageImpl{client: m}

	err := client.Upload(context.TODO(), strings.NewReader(want), "s3://foo/bar/my_location_qr.png")
	require.NoError(t, err)
	assert.Equal(t, want, m.body)
	m.AssertExpectations(t)
}

func TestObjectStorageImpl_UploadErrors(t *testing.T) {
	m := &mockS3Client{}
	m.On("PutObjectWithContext", "foo", "bar.bin", "application/octet-stream").Return(errors.New("access denied"))
	client := &ObjectStorageImpl{client: m}

	assert.Error(t, client.Upload(context.TODO(), strings.NewReader(""), "[invalid-url]:12345"))
	assert.Error(t, client.Upload(context.TODO(), strings.NewReader(""), "s3://foo"))
	assert.EqualError(t, client.Upload(context.TODO(), strings.NewReader(""), "s3://foo/bar.bin"), "access denied")
	m.AssertNumberOfCalls(t, "PutObjectWithContext", 1)
}

func Test_getBucketAndKey(t *testing.T) {
	testCases := []struct {
		url     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://qr-bucket-2344/filename.png", "qr-bucket-2344", "filename.png", false},
		{"s3://a-different-bucket/trips/2019/my_location_qr.png", "a-different-bucket", "trips/2019/my_location_qr.png", false},
		{"[invalid-url]:12345", "", "", true},
	}
	for _, tc := range testCases {
		bucket, key, err := getBucketAndKey(tc.url)
		if tc.wantErr {
			if bucket != "" || key != "" || err == nil {
				t.Errorf("getBucketAndKey(%q) was expected to fail but didn't", tc.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error in getBucketAndKey: %s", err)
		}
		if bucket != tc.bucket {
			t.Errorf("Unexpected bucket - got: %s, want: %s", bucket, tc.bucket)
		}
		if key != tc.key {
			t.Errorf("Unexpected key - got: %s, want: %s", key, tc.key)
		}
	}
}
