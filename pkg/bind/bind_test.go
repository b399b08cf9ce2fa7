package bind

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func TestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a","password":"b"}`))
	var in loginInput
	errs, err := JSON(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "a", in.Username)
}

func TestJSONValidationAndMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a"}`))
	var in loginInput
	errs, err := JSON(req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "password")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))
	_, err = JSON(req, &in)
	assert.ErrorContains(t, err, "invalid JSON")
}

type productForm struct {
	Name     *string `form:"name"`
	Price    *string `form:"price"`
	InStock  *string `form:"inStock"`
	Category string  `form:"category"`
}

func TestFormMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Truffle"))
	require.NoError(t, mw.WriteField("price", ""))
	require.NoError(t, mw.WriteField("category", "chocolate"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	var in productForm
	require.NoError(t, Form(req, &in))

	require.NotNil(t, in.Name)
	assert.Equal(t, "Truffle", *in.Name)
	require.NotNil(t, in.Price, "sent-but-empty stays non-nil")
	assert.Equal(t, "", *in.Price)
	assert.Nil(t, in.InStock, "absent stays nil")
	assert.Equal(t, "chocolate", in.Category)
}

func TestFormURLEncoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"inStock": {"false"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, req.ParseForm())

	var in productForm
	require.NoError(t, Form(req, &in))
	require.NotNil(t, in.InStock)
	assert.Equal(t, "false", *in.InStock)
}

func TestFormRejectsNonPointer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Error(t, Form(req, productForm{}))
}
