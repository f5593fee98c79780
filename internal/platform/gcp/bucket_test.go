package gcp

import (
	"context"
	"testing"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  BucketConfig
		key  string
		want string
	}{
		{"gcs", BucketConfig{Name: "banners-bkt"}, "banners/a/1.png", "https://storage.googleapis.com/banners-bkt/banners/a/1.png"},
		{"cdn", BucketConfig{Name: "banners-bkt", CDNDomain: "cdn.example.com/"}, "/banners/a/1.png", "https://cdn.example.com/banners/a/1.png"},
		{"emulator", BucketConfig{Name: "b", EmulatorHost: "http://localhost:4443/"}, "k.png", "http://localhost:4443/b/k.png"},
	}
	for _, tc := range cases {
		if got := publicURL(tc.cfg, tc.key); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"banners/x/1.PNG":  "image/png",
		"a.jpeg":           "image/jpeg",
		"a.webp?sig=abc":   "image/webp",
		"notes/readme.txt": "",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("%s: want=%q got=%q", key, want, got)
		}
	}
}

func TestNewBucketServiceWithoutBucket(t *testing.T) {
	svc, err := NewBucketService(context.Background(), logger.NewNop(), BucketConfig{})
	if err != nil || svc != nil {
		t.Fatalf("want nil,nil got %v,%v", svc, err)
	}
}
