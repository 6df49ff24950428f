package view

import "github.com/thesavant42/psiview/internal/models"

// PageControl is one numbered page button
type PageControl struct {
	Number  int // 1-based
	Current bool
}

// PageControls describes the pagination widget
type PageControls struct {
	Pages        []PageControl
	PrevDisabled bool
	NextDisabled bool
}

// Page is one slice of an ordered record list
type Page struct {
	Visible    []models.Record
	PageIndex  int // clamped, zero-based
	PageSize   int
	TotalPages int
	Total      int // length of the list that was paginated
	Controls   PageControls
}

// Paginate slices ordered into pages of pageSize and returns the page at
// pageIndex. An out-of-range index is clamped to the nearest valid page.
func Paginate(ordered []models.Record, pageIndex, pageSize int) Page {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	total := len(ordered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if pageIndex > totalPages-1 {
		pageIndex = totalPages - 1
	}
	if pageIndex < 0 {
		pageIndex = 0
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Visible:    ordered[start:end:end],
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
		Controls:   buildControls(pageIndex, totalPages),
	}
}

func buildControls(pageIndex, totalPages int) PageControls {
	pages := make([]PageControl, totalPages)
	for i := range pages {
		pages[i] = PageControl{Number: i + 1, Current: i == pageIndex}
	}
	return PageControls{
		Pages:        pages,
		PrevDisabled: pageIndex == 0,
		NextDisabled: pageIndex >= totalPages-1,
	}
}

// StartRow returns the 1-based number of the first visible row, 0 when empty
func (p Page) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.PageIndex*p.PageSize + 1
}

// EndRow returns the 1-based number of the last visible row
func (p Page) EndRow() int {
	end := p.PageIndex*p.PageSize + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return end
}
