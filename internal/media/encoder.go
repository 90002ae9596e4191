// Package media turns uploaded cover files into strings that can be stored
// inside an invite record.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/invitekeeper/internal/model"
)

// Inline encodes media as a base64 data URL.
type Inline struct{}

func NewInline() *Inline {
	return &Inline{}
}

func (e *Inline) Encode(_ context.Context, file model.MediaFile) (string, error) {
	if file.Reader == nil {
		return "", fmt.Errorf("failed to encode %s: %w", file.Name, errors.Join(model.ErrEncoding, errors.New("no content")))
	}

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(file.ContentType)
	b.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if _, err := io.Copy(enc, file.Reader); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", file.Name, errors.Join(model.ErrEncoding, err))
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", file.Name, errors.Join(model.ErrEncoding, err))
	}

	return b.String(), nil
}

// Open decodes a data URL produced by Encode.
func (e *Inline) Open(_ context.Context, ref string) (model.MediaFile, error) {
	return decodeDataURL(ref)
}

// Release is a no-op: inline media lives inside the record itself.
func (e *Inline) Release(context.Context, string) error {
	return nil
}

func decodeDataURL(ref string) (model.MediaFile, error) {
	rest, isData := strings.CutPrefix(ref, "data:")
	header, payload, hasPayload := strings.Cut(rest, ",")
	contentType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isData || !hasPayload || !isBase64 {
		return model.MediaFile{}, fmt.Errorf("not an inline media reference: %w", model.ErrNotFound)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return model.MediaFile{}, fmt.Errorf("failed to decode inline media: %w", errors.Join(model.ErrEncoding, err))
	}

	return model.MediaFile{
		ContentType: contentType,
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}, nil
}

// Object uploads media to an object store and returns an s3:// pointer.
type Object struct {
	storage model.Storage
	prefix  string
}

func NewObject(storage model.Storage) *Object {
	return &Object{
		storage: storage,
		prefix:  "invites/",
	}
}

func (e *Object) Encode(ctx context.Context, file model.MediaFile) (string, error) {
	if file.Reader == nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Name, errors.Join(model.ErrEncoding, errors.New("no content")))
	}

	key := e.prefix + uuid.NewString() + strings.ToLower(filepath.Ext(file.Name))
	size := file.Size
	if size <= 0 {
		size = -1
	}

	if err := e.storage.Upload(ctx, key, file.Reader, size, file.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Name, errors.Join(model.ErrEncoding, err))
	}

	return "s3://" + e.storage.Bucket() + "/" + key, nil
}

// Open streams an object uploaded by Encode. Data URLs saved before the
// store was switched to objects are still decoded.
func (e *Object) Open(ctx context.Context, ref string) (model.MediaFile, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	key, ok := e.key(ref)
	if !ok {
		return model.MediaFile{}, fmt.Errorf("media %q is not in bucket %s: %w", ref, e.storage.Bucket(), model.ErrNotFound)
	}

	body, err := e.storage.Download(ctx, key)
	if err != nil {
		return model.MediaFile{}, fmt.Errorf("failed to open media %s: %w", key, err)
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return model.MediaFile{Name: path.Base(key), ContentType: contentType, Size: -1, Reader: body}, nil
}

// Release deletes the object behind ref. References outside the bucket and
// objects that are already gone are ignored.
func (e *Object) Release(ctx context.Context, ref string) error {
	key, ok := e.key(ref)
	if !ok {
		return nil
	}

	exists, err := e.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check media %s: %w", key, err)
	}
	if !exists {
		return nil
	}

	if err := e.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to release media %s: %w", key, err)
	}
	return nil
}

func (e *Object) key(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, "s3://"+e.storage.Bucket()+"/")
	return key, ok && key != ""
}

// BlobURL is the transient reference used when a file cannot be encoded.
func BlobURL() string {
	return "blob:" + uuid.NewString()
}
