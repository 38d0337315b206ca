package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/repository"
)

type fakeStorage struct {
	url      string
	err      error
	uploaded []string
}

func (f *fakeStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, name)
	return f.url, nil
}

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestUploadStoresImageAndPersistsRecord(t *testing.T) {
	db := setupTestDB(t)
	images := repository.NewImageRepository(db)
	storage := &fakeStorage{url: "https://cdn.test/uploads/my-avatar.png"}
	svc := NewUploadService(storage, images, 5, testLogger())

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	response, err := svc.Upload(context.Background(), multipartFile(t, "My Avatar!.PNG", content))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.test/uploads/my-avatar.png", response.ImageURL)
	require.Equal(t, "image/png", response.MimeType)
	require.EqualValues(t, len(content), response.SizeBytes)
	require.Equal(t, []string{"my-avatar.png"}, storage.uploaded)

	stored, err := images.GetByID(context.Background(), response.ImageID)
	require.NoError(t, err)
	require.Equal(t, "image/png", stored.MimeType)
	require.Len(t, stored.Checksum, 64)
}

func TestUploadRejectsNonImagePayload(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUploadService(&fakeStorage{url: "x"}, repository.NewImageRepository(db), 5, testLogger())

	_, err := svc.Upload(context.Background(), multipartFile(t, "notes.txt", []byte("plain text, not an image")))
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUploadService(&fakeStorage{url: "x"}, repository.NewImageRepository(db), 1, testLogger())

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1<<20)...)
	_, err := svc.Upload(context.Background(), multipartFile(t, "huge.png", content))
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadRequiresFile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUploadService(&fakeStorage{url: "x"}, repository.NewImageRepository(db), 5, testLogger())

	_, err := svc.Upload(context.Background(), nil)
	require.Error(t, err)
}

func TestUploadStorageFailureLeavesNoRecord(t *testing.T) {
	db := setupTestDB(t)
	images := repository.NewImageRepository(db)
	svc := NewUploadService(&fakeStorage{err: errors.New("cloud unreachable")}, images, 5, testLogger())

	var before int64
	require.NoError(t, db.Model(&models.Image{}).Count(&before).Error)

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	_, err := svc.Upload(context.Background(), multipartFile(t, "fail.png", content))
	require.Error(t, err)

	var after int64
	require.NoError(t, db.Model(&models.Image{}).Count(&after).Error)
	require.Equal(t, before, after)
}
