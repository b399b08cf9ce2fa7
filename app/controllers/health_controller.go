package controllers

import "github.com/shashiranjanraj/cakeshop/pkg/ctx"

func Health(c *ctx.Context) {
	c.Success(map[string]bool{"ok": true})
}

// NotFound answers every unmatched path.
func NotFound(c *ctx.Context) {
	c.NotFound()
}
