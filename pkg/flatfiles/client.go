// Package flatfiles downloads Meridian's bulk historical data files over
// the S3 protocol. Keys follow the layout
// <asset class>/<data type>/<year>/<month>/<date>.csv.gz, one file per
// trading day. The package lists and fetches files and decodes the CSV
// records inside them; it never interprets market semantics beyond that.
package flatfiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	defaultEndpoint = "https://files.meridian.io"
	defaultBucket   = "flatfiles"

	// The endpoint is region-agnostic but SigV4 signing still wants one.
	signingRegion = "us-east-1"
)

var (
	// ErrNotFound reports a key that does not exist in the bucket.
	ErrNotFound = errors.New("flat file not found")
	// ErrAccessDenied reports a key the configured credentials cannot read,
	// typically an asset class outside the subscription.
	ErrAccessDenied = errors.New("flat file access denied")
)

// Config carries the S3 endpoint and credentials for the flat file store.
type Config struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Client reads the flat file bucket. Safe for concurrent use.
type Client struct {
	s3     *s3.S3
	bucket string
}

// New builds a flat file client from static credentials. The endpoint and
// bucket fall back to the production defaults when unset.
func New(cfg Config) (*Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("meridian: flat files require s3 credentials: set MERIDIAN_S3_ACCESS_KEY_ID and MERIDIAN_S3_SECRET_ACCESS_KEY")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = defaultBucket
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(signingRegion),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("meridian: flat files session: %w", err)
	}
	return &Client{s3: s3.New(sess), bucket: bucket}, nil
}

// FileFilter narrows a listing. Fields apply hierarchically: an asset class
// alone covers every data type beneath it, and a fully specified filter
// addresses a single day file.
type FileFilter struct {
	AssetClass string
	DataType   string
	Date       string // ISO date; requires AssetClass and DataType
}

func (f FileFilter) prefix() (string, error) {
	if f.AssetClass == "" {
		if f.DataType != "" || f.Date != "" {
			return "", errors.New("meridian: file filter requires an asset class before narrower fields")
		}
		return "", nil
	}
	p := f.AssetClass + "/"
	if f.DataType == "" {
		if f.Date != "" {
			return "", errors.New("meridian: file filter requires a data type before a date")
		}
		return p, nil
	}
	p += f.DataType + "/"
	if f.Date == "" {
		return p, nil
	}
	day, err := time.Parse("2006-01-02", f.Date)
	if err != nil {
		return "", fmt.Errorf("meridian: invalid filter date %q: expected YYYY-MM-DD", f.Date)
	}
	return p + day.Format("2006/01/") + f.Date + ".csv.gz", nil
}

// List enumerates the files under the filter's prefix, following
// continuation tokens until the listing is exhausted. Directory marker
// objects are skipped.
func (c *Client) List(ctx context.Context, filter FileFilter) ([]FileInfo, error) {
	prefix, err := filter.prefix()
	if err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(c.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var files []FileInfo
	for {
		out, err := c.s3.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, mapS3Error("list", prefix, err)
		}
		for _, obj := range out.Contents {
			key := aws.StringValue(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, FileInfo{
				Key:          key,
				Size:         aws.Int64Value(obj.Size),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		if !aws.BoolValue(out.IsTruncated) {
			return files, nil
		}
		input.ContinuationToken = out.NextContinuationToken
	}
}

// Metadata describes one file without downloading it. A missing key yields
// ErrNotFound, an unreadable one ErrAccessDenied.
func (c *Client) Metadata(ctx context.Context, key string) (*FileInfo, error) {
	if key == "" {
		return nil, errors.New("meridian: file key is required")
	}
	out, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error("describe", key, err)
	}
	return &FileInfo{
		Key:          key,
		Size:         aws.Int64Value(out.ContentLength),
		LastModified: aws.TimeValue(out.LastModified),
	}, nil
}

// Download streams one file into w and reports the bytes written.
func (c *Client) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	if key == "" {
		return 0, errors.New("meridian: file key is required")
	}
	out, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, mapS3Error("download", key, err)
	}
	defer out.Body.Close()

	n, err := io.Copy(w, out.Body)
	if err != nil {
		return n, fmt.Errorf("meridian: download %s: %w", key, err)
	}
	return n, nil
}

// DownloadTo writes one file into dir, named after the key's final path
// segment. A failed transfer removes the partial file.
func (c *Client) DownloadTo(ctx context.Context, key, dir string) (*FileResult, error) {
	if key == "" {
		return nil, errors.New("meridian: file key is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("meridian: create download dir: %w", err)
	}

	dest := filepath.Join(dir, path.Base(key))
	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("meridian: create %s: %w", dest, err)
	}

	n, err := c.Download(ctx, key, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("meridian: close %s: %w", dest, closeErr)
	}
	if err != nil {
		os.Remove(dest)
		return nil, err
	}
	return &FileResult{Key: key, Path: dest, Size: n}, nil
}

// DownloadBatch fetches keys sequentially into dir. A failed key records
// its error in the result and the batch moves on; only a dead context stops
// the loop early. Results keep the order of keys.
func (c *Client) DownloadBatch(ctx context.Context, keys []string, dir string) (*BatchResult, error) {
	batch := &BatchResult{Results: make([]FileResult, 0, len(keys))}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		res, err := c.DownloadTo(ctx, key, dir)
		if err != nil {
			logx.WithContext(ctx).Errorf("flatfiles: download key=%s err=%v", key, err)
			batch.Results = append(batch.Results, FileResult{Key: key, Err: err})
			continue
		}
		batch.Results = append(batch.Results, *res)
	}
	return batch, nil
}

// mapS3Error folds SDK failures onto the package sentinels. The SDK
// surfaces HEAD failures by status code only, so both the NoSuchKey code
// and a bare 404 mean not found.
func mapS3Error(verb, key string, err error) error {
	if reqErr, ok := err.(awserr.RequestFailure); ok {
		switch {
		case reqErr.Code() == s3.ErrCodeNoSuchKey || reqErr.StatusCode() == http.StatusNotFound:
			return fmt.Errorf("meridian: %s %s: %w", verb, key, ErrNotFound)
		case reqErr.StatusCode() == http.StatusForbidden:
			return fmt.Errorf("meridian: %s %s: %w", verb, key, ErrAccessDenied)
		}
	}
	return fmt.Errorf("meridian: %s %s: %w", verb, key, err)
}
