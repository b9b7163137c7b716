// Package archive conserve une copie JSON des commandes avant leur effacement de l'historique.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"storefront_back_end/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Archiver interface {
	Archive(ctx context.Context, order models.Order) error
}

type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucket, object string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// DefaultLinkTTL borne la durée de validité des liens signés.
const DefaultLinkTTL = 15 * time.Minute

// Link pointe vers une archive via une URL signée temporaire.
type Link struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	ArchivedAt time.Time `json:"archivedAt"`
}

// Browser liste les archives d'un client.
type Browser interface {
	Links(ctx context.Context, email string, ttl time.Duration) ([]Link, error)
}

type MinioArchiver struct {
	client objectStore
	bucket string
	now    func() time.Time
}

// NewMinioClient ouvre le client MinIO partagé.
func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

func NewMinioArchiver(client *minio.Client, bucket string) *MinioArchiver {
	return &MinioArchiver{client: client, bucket: bucket, now: time.Now}
}

// EnsureBucket crée le bucket d'archive s'il n'existe pas.
func (a *MinioArchiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("vérification bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("création bucket %s: %w", a.bucket, err)
	}
	return nil
}

// ObjectName range les archives par client : orders/<email>/<id>-<horodatage>.json.
func ObjectName(order models.Order, at time.Time) string {
	return fmt.Sprintf("%s%s-%d.json", customerPrefix(order.Email), order.ID.Hex(), at.Unix())
}

func customerPrefix(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "inconnu"
	}
	return "orders/" + email + "/"
}

func (a *MinioArchiver) Archive(ctx context.Context, order models.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	name := ObjectName(order, a.now())
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("archivage %s: %w", name, err)
	}
	return nil
}

// Links renvoie les archives du client avec un lien de téléchargement valable ttl.
func (a *MinioArchiver) Links(ctx context.Context, email string, ttl time.Duration) ([]Link, error) {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	links := []Link{}
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    customerPrefix(email),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("liste des archives: %w", obj.Err)
		}
		u, err := a.client.PresignedGetObject(ctx, a.bucket, obj.Key, ttl, make(url.Values))
		if err != nil {
			return nil, fmt.Errorf("lien signé %s: %w", obj.Key, err)
		}
		links = append(links, Link{Key: obj.Key, URL: u.String(), Size: obj.Size, ArchivedAt: obj.LastModified})
	}
	return links, nil
}

type Noop struct{}

func (Noop) Archive(context.Context, models.Order) error { return nil }

func (Noop) Links(context.Context, string, time.Duration) ([]Link, error) { return []Link{}, nil }
