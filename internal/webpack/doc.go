// Package webpack reads webpack build statistics and reduces them to the
// subset needed for bundle-size reporting.
//
// A raw stats document (the output of `webpack --json` or the
// stats-webpack-plugin) is decoded into a Source. Filter keeps the assets,
// chunks, modules and entrypoints that contribute to the shipped bundle and
// drops source maps and hot-update files. Validate checks that the filtered
// Stats are usable; Filter must always run before Validate.
//
// Multi-compiler documents carry their compilations in "children" and no
// top-level assets. Filter merges the children in that case.
package webpack
