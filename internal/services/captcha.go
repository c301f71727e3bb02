package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image/png"
	"math/big"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/store"
)

// Ambiguous glyphs (I, O, 0, 1) are left out of the alphabet.
const captchaChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	captchaWidth  = 120
	captchaHeight = 40
	captchaLength = 4
	captchaTTL    = 5 * time.Minute
)

type CaptchaService interface {
	// Generate returns the challenge id and the PNG image.
	Generate(ctx context.Context) (string, []byte, error)
	// Verify consumes the challenge: a code can be checked only once.
	Verify(ctx context.Context, id, code string) (bool, error)
}

type captchaService struct {
	store store.Store
	log   *logger.Logger
	font  *truetype.Font
}

func NewCaptchaService(st store.Store, log *logger.Logger) (CaptchaService, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse captcha font: %w", err)
	}
	return &captchaService{
		store: st,
		log:   log.With("service", "CaptchaService"),
		font:  f,
	}, nil
}

func captchaKey(id string) string {
	return "captcha:" + id
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func randomText() string {
	var b strings.Builder
	for i := 0; i < captchaLength; i++ {
		b.WriteByte(captchaChars[randomInt(len(captchaChars))])
	}
	return b.String()
}

func (s *captchaService) render(text string) ([]byte, error) {
	dc := gg.NewContext(captchaWidth, captchaHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Distraction lines behind the glyphs.
	dc.SetRGB255(200, 200, 200)
	dc.SetLineWidth(1)
	for i := 0; i < 3; i++ {
		dc.DrawLine(
			float64(randomInt(captchaWidth)), float64(randomInt(captchaHeight)),
			float64(randomInt(captchaWidth)), float64(randomInt(captchaHeight)),
		)
		dc.Stroke()
	}

	dc.SetFontFace(truetype.NewFace(s.font, &truetype.Options{Size: 26}))
	x := 12.0
	for _, ch := range text {
		dc.SetRGB255(randomInt(100), randomInt(100), randomInt(100))
		y := 28.0 + float64(randomInt(7)-3)
		dc.DrawString(string(ch), x, y)
		x += 25
	}

	dc.SetRGB255(150, 150, 150)
	for i := 0; i < 50; i++ {
		dc.SetPixel(randomInt(captchaWidth), randomInt(captchaHeight))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode captcha: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *captchaService) Generate(ctx context.Context) (string, []byte, error) {
	text := randomText()
	img, err := s.render(text)
	if err != nil {
		return "", nil, err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.store.Set(ctx, captchaKey(id), []byte(text), captchaTTL); err != nil {
		return "", nil, fmt.Errorf("store captcha: %w", err)
	}
	s.log.Debug("Captcha generated", "captcha_id", id)
	return id, img, nil
}

func (s *captchaService) Verify(ctx context.Context, id, code string) (bool, error) {
	want, err := s.store.Get(ctx, captchaKey(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	// One shot per challenge regardless of outcome.
	_ = s.store.Delete(ctx, captchaKey(id))
	return strings.EqualFold(strings.TrimSpace(code), string(want)), nil
}
