package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/autopost/configs"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrUnsupportedFileType = errors.New("only jpg, png, gif and webp images are allowed")

// Instagram publishing needs a public image URL, so uploads go to R2 and
// come back as a URL under the bucket's public domain.
var allowedImageTypes = map[string]struct{}{
	"jpg":  {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

type MediaService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error)
}

type mediaService struct {
	cfg config.Config
}

func NewMediaService(cfg config.Config) MediaService {
	return &mediaService{cfg: cfg}
}

func (s *mediaService) r2Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.cfg.R2.AccessKey, s.cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.cfg.R2.AccountID))
	}), nil
}

func (s *mediaService) Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error) {
	content, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer content.Close()

	fileBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return "", ErrUnsupportedFileType
	}
	if _, ok := allowedImageTypes[fileType.Extension]; !ok {
		return "", ErrUnsupportedFileType
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	key := fmt.Sprintf("%d/%s.%s", userID, id, fileType.Extension)

	client, err := s.r2Client(ctx)
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(fileType.MIME.Value),
	})
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return strings.TrimSuffix(s.cfg.R2.PublicURL, "/") + "/" + key, nil
}
