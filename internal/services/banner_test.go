package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type fakeBucket struct {
	keys []string
	size int
}

func (b *fakeBucket) UploadFile(_ dbctx.Context, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.keys = append(b.keys, key)
	b.size = len(data)
	return nil
}

func (b *fakeBucket) DeleteFile(dbctx.Context, string) error { return nil }

func (b *fakeBucket) GetPublicURL(key string) string { return "https://cdn.test/" + key }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newTestBanner(t *testing.T, repo *fakeCourseRepo, bucket *fakeBucket) BannerService {
	t.Helper()
	var svc BannerService
	var err error
	if bucket == nil {
		svc, err = NewBannerService(logger.NewNop(), repo, nil)
	} else {
		svc, err = NewBannerService(logger.NewNop(), repo, bucket)
	}
	if err != nil {
		t.Fatalf("NewBannerService: %v", err)
	}
	return svc
}

func assertBannerSize(t *testing.T, data []byte) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "png" || cfg.Width != BannerWidth || cfg.Height != BannerHeight {
		t.Fatalf("banner: want png %dx%d got %s %dx%d", BannerWidth, BannerHeight, format, cfg.Width, cfg.Height)
	}
}

func TestRenderPlaceholder(t *testing.T) {
	c := storedCourse(uuid.New())
	svc := newTestBanner(t, newFakeCourseRepo(c), nil)

	buf, err := svc.Render(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertBannerSize(t, buf.Bytes())

	if _, err := svc.Render(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing course: want not found got %v", err)
	}
}

func TestBannerColorIsStable(t *testing.T) {
	id := uuid.New()
	if bannerColor(id) != bannerColor(id) {
		t.Fatalf("bannerColor not deterministic")
	}
}

func TestProcessUploadedBanner(t *testing.T) {
	for _, size := range [][2]int{{600, 600}, {3000, 500}, {90, 30}} {
		out, err := processUploadedBanner(pngBytes(t, size[0], size[1]))
		if err != nil {
			t.Fatalf("%v: %v", size, err)
		}
		assertBannerSize(t, out.Bytes())
	}
	if _, err := processUploadedBanner([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestUploadBanner(t *testing.T) {
	owner := uuid.New()
	c := storedCourse(owner)
	bucket := &fakeBucket{}
	svc := newTestBanner(t, newFakeCourseRepo(c), bucket)

	got, err := svc.Upload(asUser(owner), c.ID, pngBytes(t, 800, 400))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(bucket.keys) != 1 || !strings.HasPrefix(bucket.keys[0], "banners/"+c.ID.String()+"/") || !strings.HasSuffix(bucket.keys[0], ".png") {
		t.Fatalf("keys: got=%v", bucket.keys)
	}
	if got.BannerURL != "https://cdn.test/"+bucket.keys[0] {
		t.Fatalf("banner url: got=%q", got.BannerURL)
	}

	if _, err := svc.Upload(asUser(uuid.New()), c.ID, pngBytes(t, 10, 10)); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("other user: want forbidden got %v", err)
	}
}

func TestUploadBannerWithoutStorage(t *testing.T) {
	owner := uuid.New()
	c := storedCourse(owner)
	_, err := newTestBanner(t, newFakeCourseRepo(c), nil).Upload(asUser(owner), c.ID, pngBytes(t, 10, 10))
	if apperr.Classify(err) != apperr.CategoryCredentialMissing {
		t.Fatalf("category: got=%s (%v)", apperr.Classify(err), err)
	}
}

func TestSetBannerURL(t *testing.T) {
	owner := uuid.New()
	c := storedCourse(owner)
	svc := newTestBanner(t, newFakeCourseRepo(c), nil)

	got, err := svc.SetURL(asUser(owner), c.ID, " https://img.example.com/b.png ")
	if err != nil {
		t.Fatalf("SetURL: %v", err)
	}
	if got.BannerURL != "https://img.example.com/b.png" {
		t.Fatalf("banner url: got=%q", got.BannerURL)
	}
	for _, raw := range []string{"", "ftp://x/y.png", "/relative.png"} {
		_, err := svc.SetURL(asUser(owner), c.ID, raw)
		var vErr *apperr.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%q: want ValidationError got %v", raw, err)
		}
	}
}
