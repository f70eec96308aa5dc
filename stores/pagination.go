package stores

// PageLink is one entry of a pagination bar. Ellipsis entries mark a gap
// between the window around the current page and the first or last page.
type PageLink struct {
	Page     int
	Ellipsis bool
	Current  bool
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// pageLinks always includes page 1 and the last page. With more than six
// pages only those within two of the current page are listed, with an
// ellipsis standing in for each gap.
func pageLinks(current, last int) []PageLink {
	if last <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > last {
		current = last
	}

	if last <= 6 {
		links := make([]PageLink, 0, last)
		for p := 1; p <= last; p++ {
			links = append(links, PageLink{Page: p, Current: p == current})
		}
		return links
	}

	var links []PageLink
	prev := 0
	for p := 1; p <= last; p++ {
		if p != 1 && p != last && (p < current-2 || p > current+2) {
			continue
		}
		if prev != 0 && p-prev > 1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Page: p, Current: p == current})
		prev = p
	}
	return links
}
