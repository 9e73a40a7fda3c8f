package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhouse/club-cms/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizer_KeepsSmallImages(t *testing.T) {
	data := pngBytes(t, 40, 20)

	img, err := Normalizer{MaxWidth: 100}.Normalize(data)
	require.NoError(t, err)
	assert.Equal(t, data, img.Data)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, 40, img.Width)
}

func TestNormalizer_DownscalesWideImages(t *testing.T) {
	img, err := Normalizer{MaxWidth: 50}.Normalize(pngBytes(t, 200, 100))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Width)
	assert.Equal(t, 25, img.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 50, cfg.Width)
}

func TestNormalizer_Rejects(t *testing.T) {
	tests := []struct {
		name string
		n    Normalizer
		data []byte
	}{
		{"empty", Normalizer{}, nil},
		{"not an image", Normalizer{}, []byte("%PDF-1.4 not an image")},
		{"too large", Normalizer{MaxBytes: 10}, pngBytes(t, 10, 10)},
		{"too many pixels", Normalizer{MaxBytes: 1 << 20, MaxPixels: 10_000}, pngBytes(t, 400, 400)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.n.Normalize(tt.data)
			assert.ErrorIs(t, err, ErrRejected)
		})
	}
}

func TestFoldersFor(t *testing.T) {
	f := FoldersFor("zamalek")
	assert.Equal(t, "zamalek-news", f.News)
	assert.Equal(t, "zamalek-players", f.Players)
	assert.Equal(t, "zamalek-opponents", f.Opponents)
	assert.Equal(t, "club-news", FoldersFor("").News)
}

func TestObjectStore_URLRoundTrip(t *testing.T) {
	s := &ObjectStore{bucket: "club-media", baseURL: publicBaseURL(config.MediaConfig{Endpoint: "minio:9000"})}

	key := objectKey("club-news", "jpg")
	assert.True(t, strings.HasPrefix(key, "club-news/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	url := s.url(key)
	assert.Equal(t, "http://minio:9000/club-media/"+key, url)

	got, ok := s.keyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, key, got)

	_, ok = s.keyFromURL("https://res.cloudinary.com/demo/image/upload/x.jpg")
	assert.False(t, ok)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.MediaConfig{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "https://s3.local", publicBaseURL(config.MediaConfig{Endpoint: "s3.local", UseSSL: true}))
}

type recorder struct {
	folders []string
	errs    []error
}

func (r *recorder) RecordUpload(folder string, err error) {
	r.folders = append(r.folders, folder)
	r.errs = append(r.errs, err)
}

func TestWithMetrics_CountsDisabledUploads(t *testing.T) {
	rec := &recorder{}
	u := WithMetrics(Disabled(), rec)

	_, err := u.Upload(context.Background(), File{Data: []byte("x")}, "club-news")
	assert.True(t, errors.Is(err, ErrDisabled))
	assert.Equal(t, []string{"club-news"}, rec.folders)
	assert.NoError(t, u.Remove(context.Background(), "anything"))
}
