// Package config defines the options of a bundle stats run and resolves
// them from command line flags, GitHub Actions inputs, the
// .bundle-stats.yaml file and built-in defaults.
package config
