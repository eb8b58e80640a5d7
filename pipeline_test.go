package raw565

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "assets")

	files := map[string]image.Rectangle{
		"a.png":            image.Rect(0, 0, 3, 2),
		"sub/b.PNG":        image.Rect(0, 0, 5, 5),
		"sub/deeper/c.png": image.Rect(0, 0, 1, 1),
		".hidden/d.png":    image.Rect(0, 0, 1, 1),
		"sub/.skipped.png": image.Rect(0, 0, 1, 1),
		"notes/readme.txt": image.Rectangle{},
		"substrates/e.png": image.Rect(0, 0, 8, 2),
	}
	for name, r := range files {
		file := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
		b := []byte("not an image")
		if !r.Empty() {
			b = encodePNG(t, image.NewGray(r))
		}
		require.NoError(t, ioutil.WriteFile(file, b, 0644))
	}

	c := newConverter(t, DefaultOptions())
	require.NoError(t, c.Batch(src, dst, 3))

	for name, size := range map[string]int{
		"a.bin":            3 * 2 * 2,
		"sub/b.bin":        5 * 5 * 2,
		"sub/deeper/c.bin": 1 * 1 * 2,
		"substrates/e.bin": 8 * 2 * 2,
	} {
		info, err := os.Stat(filepath.Join(dst, name))
		if assert.NoError(t, err, name) {
			assert.Equal(t, int64(size), info.Size(), name)
		}
	}
	assert.NoDirExists(t, filepath.Join(dst, ".hidden"))
	assert.NoFileExists(t, filepath.Join(dst, "sub", ".skipped.bin"))
	assert.NoDirExists(t, filepath.Join(dst, "notes"))

	// Running again leaves everything in place.
	require.NoError(t, c.Batch(src, dst, 1))
}

func TestBatchError(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "good.png"), encodePNG(t, image.NewGray(image.Rect(0, 0, 2, 2))), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "broken.png"), []byte("\x89PNG\r\n\x1a\n"), 0644))

	for i := 0; i < 20; i++ {
		require.NoError(t, ioutil.WriteFile(filepath.Join(src, fmt.Sprintf("good%02d.png", i)), encodePNG(t, image.NewGray(image.Rect(0, 0, 64, 64))), 0644))
	}

	err := newConverter(t, DefaultOptions()).Batch(src, dst, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")
	assert.NoFileExists(t, filepath.Join(dst, "broken.bin"))

	// Nothing is still writing once Batch has returned.
	before, err := ioutil.ReadDir(dst)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	after, err := ioutil.ReadDir(dst)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestWaitForPipeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := make(chan error, 1)
	failed <- errors.New("conversion failed")
	close(failed)

	// A stage that only finishes some time after being cancelled.
	var finished int32
	slow := make(chan error, 1)
	go func() {
		defer close(slow)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
		slow <- errors.New("walk cancelled")
	}()

	err := waitForPipeline(cancel, failed, slow)
	assert.EqualError(t, err, "conversion failed")
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
	assert.Error(t, ctx.Err())
}

func TestWaitForPipelineSuccess(t *testing.T) {
	a, b := make(chan error, 1), make(chan error)
	a <- nil
	close(a)
	close(b)

	assert.NoError(t, waitForPipeline(func() {}, a, b))
}

func TestBatchMissingSource(t *testing.T) {
	err := newConverter(t, DefaultOptions()).Batch(filepath.Join(t.TempDir(), "nope"), t.TempDir(), 1)
	assert.Error(t, err)
}
