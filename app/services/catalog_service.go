package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/repositories"
	"github.com/shashiranjanraj/cakeshop/pkg/cache"
	"github.com/shashiranjanraj/cakeshop/pkg/logger"
	"github.com/shashiranjanraj/cakeshop/pkg/metrics"
	"github.com/shashiranjanraj/cakeshop/pkg/storage"
	"github.com/shashiranjanraj/cakeshop/pkg/upload"
)

const (
	productsCacheKey = "products:all"
	productsCacheTTL = 60 * time.Second
)

// ProductStore is the persistence the catalog needs.
type ProductStore interface {
	All(ctx context.Context) ([]models.Product, error)
	Find(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
}

// ImageStore keeps product images. Save returns the public reference that
// is recorded on the product; Remove takes that same reference.
type ImageStore interface {
	Save(ctx context.Context, f *upload.File) (string, error)
	Remove(ctx context.Context, ref string) error
}

type CatalogService struct {
	products ProductStore
	images   ImageStore
	cache    cache.Store

	// gen counts invalidations. A list read that started before a write
	// must not refill the cache after that write's invalidation.
	mu  sync.Mutex
	gen uint64
}

func NewCatalogService(products ProductStore, images ImageStore, store cache.Store) *CatalogService {
	if store == nil {
		store = cache.Noop{}
	}
	return &CatalogService{products: products, images: images, cache: store}
}

// List returns every product, newest first.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.cache.Get(ctx, productsCacheKey, &products) {
		return products, nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	products, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	s.fill(ctx, gen, products)
	return products, nil
}

// fill caches products read at generation gen, unless a write has
// invalidated the list since.
func (s *CatalogService) fill(ctx context.Context, gen uint64, products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	if err := s.cache.Set(ctx, productsCacheKey, products, productsCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache set failed", "error", err)
	}
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fail(ErrNotFound, "Not found")
		}
		return nil, fmt.Errorf("catalog: get %d: %w", id, err)
	}
	return p, nil
}

// Create stores img and inserts the product that references it.
func (s *CatalogService) Create(ctx context.Context, in models.ProductInput, img *upload.File) (*models.Product, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, fail(ErrValidation, "Product name required")
	}
	if img == nil {
		return nil, fail(ErrValidation, "Product image required")
	}

	ref, err := s.images.Save(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("catalog: store image: %w", err)
	}

	p := &models.Product{
		Name:        *in.Name,
		Description: nonEmpty(in.Description),
		Category:    nonEmpty(in.Category),
		ImageURL:    &ref,
		InStock:     models.ParseInStock(in.InStock),
	}
	if in.Price != nil {
		p.Price = models.ParsePrice(*in.Price)
	}

	if err := s.products.Create(ctx, p); err != nil {
		s.removeImage(ctx, ref)
		return nil, fmt.Errorf("catalog: create: %w", err)
	}
	s.invalidate(ctx)
	return p, nil
}

// Update applies the fields that were sent. A new image replaces the old
// one, which is then removed on a best-effort basis.
func (s *CatalogService) Update(ctx context.Context, id uint, in models.ProductInput, img *upload.File) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fail(ErrValidation, "Product name required")
		}
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = models.ParsePrice(*in.Price)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Category != nil {
		p.Category = in.Category
	}
	if in.InStock != nil {
		p.InStock = models.ParseInStock(in.InStock)
	}

	var old *string
	if img != nil {
		ref, err := s.images.Save(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("catalog: store image: %w", err)
		}
		old, p.ImageURL = p.ImageURL, &ref
	}

	if err := s.products.Save(ctx, p); err != nil {
		if img != nil {
			s.removeImage(ctx, *p.ImageURL)
		}
		return nil, fmt.Errorf("catalog: update %d: %w", id, err)
	}
	if old != nil {
		s.removeImage(ctx, *old)
	}
	s.invalidate(ctx)
	return p, nil
}

// Delete removes the product and, best-effort, its image.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.ImageURL != nil {
		s.removeImage(ctx, *p.ImageURL)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(ErrNotFound, "Not found")
		}
		return fmt.Errorf("catalog: delete %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

// removeImage never fails the caller.
func (s *CatalogService) removeImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Remove(ctx, ref); err != nil {
		metrics.ImageCleanupFailures.Inc()
		logger.WithCtx(ctx).Warn("catalog: image cleanup failed", "image", ref, "error", err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if err := s.cache.Del(ctx, productsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidate failed", "error", err)
	}
}

// DiskImageStore keeps images under uploads/ on a storage disk.
type DiskImageStore struct {
	disk storage.Disk
	dir  string
	now  func() time.Time
}

func NewDiskImageStore(disk storage.Disk) *DiskImageStore {
	return &DiskImageStore{disk: disk, dir: "uploads", now: time.Now}
}

// Save writes f as uploads/<unix millis>-<sanitized name> and returns its URL.
func (s *DiskImageStore) Save(ctx context.Context, f *upload.File) (string, error) {
	path := s.dir + "/" + upload.StoredName(s.now(), f.Name)
	if err := s.disk.Put(ctx, path, f, f.ContentType); err != nil {
		return "", err
	}
	return s.disk.URL(path), nil
}

// Remove deletes the file behind ref. A file that is already gone is not an
// error; a reference that does not belong to this disk is.
func (s *DiskImageStore) Remove(ctx context.Context, ref string) error {
	path, ok := s.disk.PathOf(ref)
	if !ok {
		return fmt.Errorf("image %q is not on this disk", ref)
	}
	return s.disk.Delete(ctx, path)
}
