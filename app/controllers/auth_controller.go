package controllers

import (
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/ctx"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	id, err := ac.auth.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(id)
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	res, err := ac.auth.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(res)
}
