package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
)

const (
	BucketKnowledgeHub    = "knowledge-hub"
	BucketChatAttachments = "chat-attachments"

	// MaxUploadSize is the upload ceiling enforced before anything is stored.
	MaxUploadSize = 50 << 20 // 50 MB

	// SignedURLExpiry is the fixed lifetime of presigned GET URLs.
	SignedURLExpiry = time.Hour
)

// Client wraps the S3-compatible object store holding knowledge-base files
// and chat attachments.
type Client struct {
	mc *minio.Client
}

func NewClient(endpoint, accessKey, secretKey string, useSSL bool) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %v", err)
	}
	return &Client{mc: mc}, nil
}

// EnsureBuckets creates the service's buckets when they do not exist yet.
func (c *Client) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{BucketKnowledgeHub, BucketChatAttachments} {
		exists, err := c.mc.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %v", bucket, err)
		}
		if !exists {
			if err := c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("failed to create bucket %s: %v", bucket, err)
			}
			logging.Logger.Infof("Event ID: BUCKET_CREATED, Description: Created object storage bucket '%s'.", bucket)
		}
	}
	return nil
}

// BucketReachable reports whether the bucket responds, for diagnostics.
func (c *Client) BucketReachable(ctx context.Context, bucket string) error {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket %s unreachable: %v", bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}

// Upload stores an object and returns its storage path.
func (c *Client) Upload(ctx context.Context, bucket, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := c.mc.PutObject(ctx, bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %v", objectKey, err)
	}
	logging.Logger.Infof("Event ID: OBJECT_STORED, Description: Stored object '%s' (%d bytes) in bucket '%s'.", objectKey, size, bucket)
	return objectKey, nil
}

// PresignedGet issues a time-boxed signed URL for private retrieval.
func (c *Client) PresignedGet(ctx context.Context, bucket, objectKey string) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, bucket, objectKey, SignedURLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %v", objectKey, err)
	}
	return u.String(), nil
}

// ObjectKey namespaces a knowledge upload under its collection with a
// timestamp so repeated uploads of the same file name never collide.
func ObjectKey(collectionID string, now time.Time, fileName string) string {
	return fmt.Sprintf("collections/%s/%d_%s", collectionID, now.UnixNano(), fileName)
}

// AttachmentKey namespaces a chat attachment under its conversation.
func AttachmentKey(conversationID string, now time.Time, fileName string) string {
	return fmt.Sprintf("conversations/%s/%d_%s", conversationID, now.UnixNano(), fileName)
}

// ClassifyResourceType maps a MIME type onto a resource type with fixed
// precedence: video first, document-like types next, everything else a
// generic file.
func ClassifyResourceType(mimeType string) models.ResourceType {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mt, "video/"):
		return models.ResourceVideo
	case strings.Contains(mt, "pdf"), strings.Contains(mt, "document"), strings.HasPrefix(mt, "text/"):
		return models.ResourceDocument
	default:
		return models.ResourceFile
	}
}
