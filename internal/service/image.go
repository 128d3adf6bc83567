package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageStore resolves a client-supplied image value (a data URL or a plain
// URL) into a stored image URL.
type ImageStore interface {
	ResolveImage(ctx context.Context, image string) (string, error)
}

// ImageService stores uploaded recipe images in S3.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// ResolveImage uploads a base64 data URL to S3 and returns the public URL.
// Values that are not data URLs pass through unchanged.
func (s *ImageService) ResolveImage(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:image") {
		return image, nil
	}

	data, ext, err := DecodeImageDataURL(image)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	return s.uploadToS3(ctx, data, fileName, "image/"+ext)
}

func (s *ImageService) uploadToS3(ctx context.Context, imageData []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}

// DecodeImageDataURL splits a "data:image/<ext>;base64,<payload>" string
// into raw bytes and the file extension.
func DecodeImageDataURL(dataURL string) ([]byte, string, error) {
	header, payload, found := strings.Cut(dataURL, ";base64,")
	if !found {
		return nil, "", newValidationError("image", "expected a base64 data URL")
	}

	ext := strings.TrimPrefix(header, "data:image/")
	if ext == "" || strings.ContainsAny(ext, "/;,") {
		return nil, "", newValidationError("image", "unrecognized image format")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", newValidationError("image", "invalid base64 payload")
	}

	return data, ext, nil
}
