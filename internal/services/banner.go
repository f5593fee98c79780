package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"net/url"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/gcp"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const (
	BannerWidth  = 1200
	BannerHeight = 400
)

var bannerPalette = []color.NRGBA{
	{R: 0x1E, G: 0x3A, B: 0x8A, A: 0xFF},
	{R: 0x0F, G: 0x76, B: 0x6E, A: 0xFF},
	{R: 0x7C, G: 0x2D, B: 0x12, A: 0xFF},
	{R: 0x58, G: 0x1C, B: 0x87, A: 0xFF},
	{R: 0x9D, G: 0x17, B: 0x4D, A: 0xFF},
	{R: 0x16, G: 0x65, B: 0x34, A: 0xFF},
	{R: 0x37, G: 0x41, B: 0x51, A: 0xFF},
	{R: 0xB4, G: 0x53, B: 0x09, A: 0xFF},
}

type BannerService interface {
	Render(ctx context.Context, courseID uuid.UUID) (bytes.Buffer, error)
	Upload(ctx context.Context, courseID uuid.UUID, raw []byte) (*types.Course, error)
	SetURL(ctx context.Context, courseID uuid.UUID, rawURL string) (*types.Course, error)
}

type bannerService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	bucket     gcp.BucketService

	titleFace font.Face
	levelFace font.Face
}

// NewBannerService accepts a nil bucket; uploads then fail with
// ErrCredentialMissing while placeholders still render.
func NewBannerService(log *logger.Logger, courseRepo repos.CourseRepo, bucket gcp.BucketService) (BannerService, error) {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse banner font: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return &bannerService{
		log:        log.With("service", "BannerService"),
		courseRepo: courseRepo,
		bucket:     bucket,
		titleFace:  face(56),
		levelFace:  face(28),
	}, nil
}

func (bs *bannerService) Render(ctx context.Context, courseID uuid.UUID) (bytes.Buffer, error) {
	course, err := getCourse(dbctx.Context{Ctx: ctx}, bs.courseRepo, courseID)
	if err != nil {
		return bytes.Buffer{}, err
	}
	return bs.renderPlaceholder(course)
}

func (bs *bannerService) renderPlaceholder(course *types.Course) (bytes.Buffer, error) {
	const pad = 64.0
	dc := gg.NewContext(BannerWidth, BannerHeight)

	dc.SetColor(bannerColor(course.ID))
	dc.DrawRectangle(0, 0, BannerWidth, BannerHeight)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(bs.titleFace)
	dc.DrawStringWrapped(course.Title, pad, BannerHeight/2-24, 0, 0.5, BannerWidth-2*pad, 1.3, gg.AlignLeft)

	if course.Level != "" {
		dc.SetColor(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xCC})
		dc.SetFontFace(bs.levelFace)
		dc.DrawString(strings.ToUpper(course.Level), pad, BannerHeight-pad)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (bs *bannerService) Upload(ctx context.Context, courseID uuid.UUID, raw []byte) (*types.Course, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := getOwnedCourse(dbc, bs.courseRepo, courseID); err != nil {
		return nil, err
	}
	if bs.bucket == nil {
		return nil, fmt.Errorf("banner storage: %w", apperr.ErrCredentialMissing)
	}
	processed, err := processUploadedBanner(raw)
	if err != nil {
		return nil, &apperr.ValidationError{Invalid: []apperr.FieldError{{Field: "banner", Reason: err.Error()}}}
	}

	key := fmt.Sprintf("banners/%s/%d.png", courseID, time.Now().UnixNano())
	if err := bs.bucket.UploadFile(dbc, key, bytes.NewReader(processed.Bytes())); err != nil {
		return nil, fmt.Errorf("upload course banner: %w", err)
	}
	if err := bs.courseRepo.UpdateFields(dbc, courseID, map[string]any{"banner_url": bs.bucket.GetPublicURL(key)}); err != nil {
		return nil, fmt.Errorf("update course banner: %w", err)
	}
	bs.log.Info("Course banner uploaded", "course_id", courseID, "key", key)
	return getCourse(dbc, bs.courseRepo, courseID)
}

func (bs *bannerService) SetURL(ctx context.Context, courseID uuid.UUID, rawURL string) (*types.Course, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := getOwnedCourse(dbc, bs.courseRepo, courseID); err != nil {
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, &apperr.ValidationError{Missing: []string{"bannerUrl"}}
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &apperr.ValidationError{Invalid: []apperr.FieldError{{Field: "bannerUrl", Value: rawURL, Reason: "must be an absolute http(s) URL"}}}
	}
	if err := bs.courseRepo.UpdateFields(dbc, courseID, map[string]any{"banner_url": rawURL}); err != nil {
		return nil, fmt.Errorf("update course banner: %w", err)
	}
	return getCourse(dbc, bs.courseRepo, courseID)
}

func bannerColor(id uuid.UUID) color.NRGBA {
	sum := sha256.Sum256(id[:])
	return bannerPalette[int(sum[0])%len(bannerPalette)]
}

// processUploadedBanner center-crops to 3:1 and scales to the banner size.
func processUploadedBanner(raw []byte) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return out, fmt.Errorf("empty image")
	}
	cropW, cropH := w, w*BannerHeight/BannerWidth
	if cropH > h {
		cropH = h
		cropW = h * BannerWidth / BannerHeight
	}
	if cropW == 0 || cropH == 0 {
		return out, fmt.Errorf("image too small")
	}
	x0 := b.Min.X + (w-cropW)/2
	y0 := b.Min.Y + (h-cropH)/2

	cropRect := image.Rect(0, 0, cropW, cropH)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, BannerWidth, BannerHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	if err := gg.NewContextForRGBA(dst).EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}
