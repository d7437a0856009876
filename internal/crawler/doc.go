// Package crawler walks a paginated product listing, inspects each product
// page for its review tags and walks the paginated reviews of every tag,
// writing one row per review.
//
// All steps share one engine.Renderer and run sequentially.
package crawler
