// Package strategy implements the two dispatch strategies over a resolved
// list of sub-agent targets: sequential (ordered, fail-fast skips the
// remainder) and parallel (bounded concurrency via a weighted semaphore,
// fail-fast cancels outstanding work). Both strategies emit results in
// original target order regardless of completion order.
package strategy
