package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateETagStable(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	a := GenerateETag("doc1", at)
	b := GenerateETag("doc1", at)
	if a != b {
		t.Fatalf("etag not stable: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) {
		t.Fatalf("etag not quoted: %s", a)
	}
}

func TestGenerateETagVaries(t *testing.T) {
	at := time.Now()
	if GenerateETag("doc1", at) == GenerateETag("doc2", at) {
		t.Fatal("different ids must produce different etags")
	}
	if GenerateETag("doc1", at) == GenerateETag("doc1", at.Add(time.Second)) {
		t.Fatal("different timestamps must produce different etags")
	}
}
