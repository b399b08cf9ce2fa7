package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/repositories"
	"github.com/shashiranjanraj/cakeshop/pkg/upload"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[uint]*models.User
	nextID uint
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint]*models.User{}} }

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	if err := u.BeforeSave(nil); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

type fakeProducts struct {
	mu     sync.Mutex
	rows   map[uint]models.Product
	nextID uint
	calls  int
}

func newFakeProducts() *fakeProducts { return &fakeProducts{rows: map[uint]models.Product{}} }

func (f *fakeProducts) All(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := []models.Product{}
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeProducts) Find(_ context.Context, id uint) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProducts) Save(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// gatedProducts pauses the first All after it has read the rows, until
// release is closed.
type gatedProducts struct {
	*fakeProducts
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedProducts() *gatedProducts {
	return &gatedProducts{fakeProducts: newFakeProducts(), read: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedProducts) All(ctx context.Context) ([]models.Product, error) {
	out, err := g.fakeProducts.All(ctx)
	g.once.Do(func() {
		close(g.read)
		<-g.release
	})
	return out, err
}

type fakeImages struct {
	saved     []string
	removed   []string
	removeErr error
}

func (f *fakeImages) Save(_ context.Context, img *upload.File) (string, error) {
	ref := "/uploads/" + upload.StoredName(time.UnixMilli(int64(len(f.saved)+1)), img.Name)
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeImages) Remove(_ context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return f.removeErr
}

// memCache is a cache.Store that round-trips through JSON like Redis does.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return ok && json.Unmarshal(b, dest) == nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	rows      map[uint]models.Order
	nextID    uint
	createErr error
}

func newFakeOrders() *fakeOrders { return &fakeOrders{rows: map[uint]models.Order{}} }

func (f *fakeOrders) All(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.rows {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrders) Find(_ context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = time.Now()
	f.rows[o.ID] = *o
	return nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *models.Order, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[o.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	row.Status = status
	f.rows[o.ID] = row
	return nil
}

var errBoom = errors.New("boom")

// memFile satisfies multipart.File.
type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func imageFile(name, body string) *upload.File {
	return &upload.File{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Content:     memFile{bytes.NewReader([]byte(body))},
	}
}
