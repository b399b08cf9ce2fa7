package controllers

import (
	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/pkg/bind"
	"github.com/shashiranjanraj/cakeshop/pkg/ctx"
	"github.com/shashiranjanraj/cakeshop/pkg/upload"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.catalog.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.catalog.Get(c.Context(), c.ParamUint("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

// Store handles the multipart POST /api/products.
func (pc *ProductController) Store(c *ctx.Context) {
	in, img, ok := readProductForm(c)
	if !ok {
		return
	}
	defer img.Close()

	p, err := pc.catalog.Create(c.Context(), in, img)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

// Update applies the fields present in the form; image is optional.
func (pc *ProductController) Update(c *ctx.Context) {
	in, img, ok := readProductForm(c)
	if !ok {
		return
	}
	defer img.Close()

	p, err := pc.catalog.Update(c.Context(), c.ParamUint("id"), in, img)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.catalog.Delete(c.Context(), c.ParamUint("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]bool{"success": true})
}

// readProductForm parses the upload first so the text fields of the body are
// available to bind.Form. img is nil when no file was sent.
func readProductForm(c *ctx.Context) (models.ProductInput, *upload.File, bool) {
	var in models.ProductInput

	img, err := upload.Image(c.W, c.R, "image", config.MaxUploadBytes())
	if err != nil {
		c.Fail(err)
		return in, nil, false
	}
	if err := bind.Form(c.R, &in); err != nil {
		img.Close()
		c.Fail(err)
		return in, nil, false
	}
	return in, img, true
}
