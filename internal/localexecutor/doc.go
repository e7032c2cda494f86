// Package localexecutor runs a plan's rule edges on the local machine with a
// pool of concurrent workers.
//
// An edge is scheduled once every edge producing one of its inputs has
// finished. It is skipped as up to date when all its outputs exist, none of
// its dependencies ran, and no non-ancient input is newer than its oldest
// output. When an edge fails, its partial outputs are removed and every
// downstream edge is skipped; independent edges keep running.
package localexecutor
