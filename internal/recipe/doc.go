// Package recipe registers the built-in refresh recipe on an App: the
// project stats and copyright hooks, the migration copies, one task per
// plugin and the default aggregator.
package recipe
