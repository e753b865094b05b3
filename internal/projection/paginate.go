package projection

// ProjectsPerPage is the page size of the projects list
const ProjectsPerPage = 6

// TotalPages returns the number of pages for n items, never less than 1
func TotalPages(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// ClampPage keeps a 1-based page inside [1, TotalPages(n, perPage)]
func ClampPage(page, n, perPage int) int {
	last := TotalPages(n, perPage)
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

// Paginate returns the 1-based page of items. Out of range pages are clamped.
func Paginate[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return items
	}
	page = ClampPage(page, len(items), perPage)
	start := (page - 1) * perPage
	if start >= len(items) {
		return items[:0]
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}
