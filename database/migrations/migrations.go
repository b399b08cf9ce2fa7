// Package migrations contains the schema history of the cake shop.
// Each file registers itself from init(); importing this package for its
// side effects (as cmd/cakeshop does) makes every migration visible to the
// runner.
package migrations
