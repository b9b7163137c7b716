package archive

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"storefront_back_end/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeStore) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, bucket, object string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+object] = b
	f.types[bucket+"/"+object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(b))}, nil
}

func (f *fakeStore) ListObjects(_ context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	var keys []string
	for k := range f.objects {
		if key, ok := strings.CutPrefix(k, bucket+"/"); ok && strings.HasPrefix(key, opts.Prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k, Size: int64(len(f.objects[bucket+"/"+k]))}
	}
	close(ch)
	return ch
}

func (f *fakeStore) PresignedGetObject(_ context.Context, bucket, object string, expires time.Duration, _ url.Values) (*url.URL, error) {
	return &url.URL{
		Scheme:   "http",
		Host:     "minio.local",
		Path:     "/" + bucket + "/" + object,
		RawQuery: "X-Amz-Expires=" + strconv.Itoa(int(expires.Seconds())),
	}, nil
}

func TestMinioArchiver(t *testing.T) {
	fs := newFakeStore()
	at := time.Unix(1700000000, 0)
	a := &MinioArchiver{client: fs, bucket: "orders-archive", now: func() time.Time { return at }}

	require.NoError(t, a.EnsureBucket(context.Background()))
	assert.True(t, fs.buckets["orders-archive"])

	order := models.Order{ID: primitive.NewObjectID(), Email: "Client@Example.com", Status: models.StatusDelivered, Total: 42}
	require.NoError(t, a.Archive(context.Background(), order))

	key := "orders-archive/orders/client@example.com/" + order.ID.Hex() + "-1700000000.json"
	require.Contains(t, fs.objects, key)
	assert.Equal(t, "application/json", fs.types[key])

	var stored models.Order
	require.NoError(t, json.Unmarshal(fs.objects[key], &stored))
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.Equal(t, 42.0, stored.Total)
}

func TestMinioArchiver_Links(t *testing.T) {
	fs := newFakeStore()
	a := &MinioArchiver{client: fs, bucket: "orders-archive", now: time.Now}
	ctx := context.Background()

	mine := models.Order{ID: primitive.NewObjectID(), Email: "alice@example.com"}
	other := models.Order{ID: primitive.NewObjectID(), Email: "bob@example.com"}
	require.NoError(t, a.Archive(ctx, mine))
	require.NoError(t, a.Archive(ctx, other))

	links, err := a.Links(ctx, " Alice@Example.com ", 0)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.True(t, strings.HasPrefix(links[0].Key, "orders/alice@example.com/"+mine.ID.Hex()))
	assert.Contains(t, links[0].URL, "X-Amz-Expires=900")
	assert.Positive(t, links[0].Size)

	links, err = a.Links(ctx, "nobody@example.com", time.Minute)
	require.NoError(t, err)
	assert.Empty(t, links)
}
