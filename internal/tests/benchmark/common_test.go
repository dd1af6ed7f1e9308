package benchmark

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// FileSizes are the body sizes served in throughput benchmarks.
var FileSizes = []int{1 << 10, 64 << 10, 1 << 20}

// newSite creates a document root holding index.html, nested pages and one
// file per entry of FileSizes named blob-<size>.bin.
func newSite(b *testing.B) string {
	b.Helper()
	root := b.TempDir()

	write := func(rel string, data []byte) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			b.Fatal(err)
		}
	}

	write("index.html", []byte("<h1>docserve</h1>\n"))
	for i := 0; i < 20; i++ {
		write(fmt.Sprintf("docs/section-%02d/page.html", i), []byte("<p>page</p>"))
	}
	for _, size := range FileSizes {
		write(blobName(size), bytes.Repeat([]byte{'x'}, size))
	}
	return root
}

func blobName(size int) string {
	return fmt.Sprintf("blob-%d.bin", size)
}
