// Package hooks is the lifecycle middleware registry. Handlers are
// registered against one of four pipeline stages together with a path
// matcher, and fire for every matching record at that stage in registration
// order.
package hooks
