package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/model"
)

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps each post as a JSON object under <prefix><id>.json.
//
// The id counter lives in the process and is seeded from the highest stored id on first use, so
// ids of posts deleted before a restart can be handed out again.
type S3Store struct { // implements PostStore
	client s3API
	bucket string
	prefix string

	mu     sync.Mutex
	nextID int64
}

func NewS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewS3StoreFromConfig builds the client the same way for AWS and S3-compatible endpoints; a
// custom endpoint switches to path-style addressing.
func NewS3StoreFromConfig(ctx context.Context, cfg config.StoreConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	storeLogger.Info().Str("bucket", cfg.S3Bucket).Str("endpoint", cfg.S3Endpoint).Msg("Using S3 store")
	return NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

func (s *S3Store) key(id model.PostID) string {
	return s.prefix + string(id) + ".json"
}

func isNotFoundError(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

// ids lists the stored post ids in ascending order. Objects that do not look like posts are
// skipped.
func (s *S3Store) ids(ctx context.Context) ([]int64, error) {
	var ids []int64

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list posts: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			n, err := strconv.ParseInt(strings.TrimSuffix(name, ".json"), 10, 64)
			if err != nil || n <= 0 {
				storeLogger.Debug().Str("key", aws.ToString(obj.Key)).Msg("Skipping non-post object")
				continue
			}
			ids = append(ids, n)
		}
	}

	slices.Sort(ids)
	return ids, nil
}

func (s *S3Store) get(ctx context.Context, id model.PostID) (model.Post, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return model.Post{}, ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to read post body: %w", err)
	}

	var post model.Post
	if err := json.Unmarshal(body, &post); err != nil {
		return model.Post{}, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	post.ID = id
	return post, nil
}

func (s *S3Store) put(ctx context.Context, post model.Post) error {
	body, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(post.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(config.CTypeJSON),
	})
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (s *S3Store) exists(ctx context.Context, id model.PostID) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat post: %w", err)
	}
	return true, nil
}

func (s *S3Store) List(ctx context.Context) ([]model.Post, error) {
	ids, err := s.ids(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(ids))
	for _, n := range ids {
		post, err := s.get(ctx, seqID(n))
		if errors.Is(err, ErrNotFound) {
			// Deleted between the listing and the read.
			continue
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *S3Store) Create(ctx context.Context, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID == 0 {
		ids, err := s.ids(ctx)
		if err != nil {
			return model.Post{}, err
		}
		s.nextID = 1
		if len(ids) > 0 {
			s.nextID = ids[len(ids)-1] + 1
		}
	}

	created := post.Clone()
	created.ID = seqID(s.nextID)
	if err := s.put(ctx, created); err != nil {
		return model.Post{}, err
	}
	s.nextID++

	storeLogger.Info().Str("key", s.key(created.ID)).Msg("Post saved to S3")
	return created, nil
}

func (s *S3Store) Update(ctx context.Context, id model.PostID, post model.Post) (model.Post, error) {
	if _, ok := parseSeq(id); !ok {
		return model.Post{}, ErrNotFound
	}
	ok, err := s.exists(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if !ok {
		return model.Post{}, ErrNotFound
	}

	updated := post.Clone()
	updated.ID = id
	if err := s.put(ctx, updated); err != nil {
		return model.Post{}, err
	}
	return updated, nil
}

func (s *S3Store) Delete(ctx context.Context, id model.PostID) error {
	if _, ok := parseSeq(id); !ok {
		return ErrNotFound
	}
	ok, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *S3Store) Close() error {
	return nil
}
