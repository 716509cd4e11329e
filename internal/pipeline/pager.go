package pipeline

// Cursor addresses one page of search results. Which field an adapter
// reads depends on its pager family: Page for explicit pagers, Offset for
// 0-indexed offset pagers, Start for 1-indexed position pagers.
type Cursor struct {
	Page   int
	Offset int
	Start  int
}

// Pager drives pagination for one search phrase. After processing a page
// the pipeline calls Advance with the number of candidates it returned and
// the adapter's "more pages" signal; Advance moves the cursor and reports
// whether another page should be fetched. A page of zero candidates always
// terminates, regardless of family. Pagers hold per-phrase state and are
// never reused across phrases.
type Pager interface {
	Cursor() Cursor
	Advance(count int, hasNext bool) bool
}

// NewExplicitPager returns a pager that increments a 1-indexed page number
// as long as the adapter reports an enabled "next" control.
func NewExplicitPager() Pager {
	return &explicitPager{page: 1}
}

type explicitPager struct {
	page int
}

func (p *explicitPager) Cursor() Cursor {
	return Cursor{Page: p.page}
}

func (p *explicitPager) Advance(count int, hasNext bool) bool {
	if count == 0 || !hasNext {
		return false
	}
	p.page++
	return true
}

// NewOffsetPager returns a pager that advances a 0-indexed offset by
// pageSize after every full page and stops on the first short page.
func NewOffsetPager(pageSize int) Pager {
	return &offsetPager{size: pageSize}
}

type offsetPager struct {
	size   int
	offset int
}

func (p *offsetPager) Cursor() Cursor {
	return Cursor{Offset: p.offset}
}

func (p *offsetPager) Advance(count int, _ bool) bool {
	if count == 0 || count < p.size {
		return false
	}
	p.offset += p.size
	return true
}

// NewStartPager returns a pager that advances a 1-indexed start position
// by pageSize after every full page. With requireSignal set it also
// demands the adapter's "more pages" signal, a defense against APIs that
// report a full page even on the last one.
func NewStartPager(pageSize int, requireSignal bool) Pager {
	return &startPager{size: pageSize, start: 1, requireSignal: requireSignal}
}

type startPager struct {
	size          int
	start         int
	requireSignal bool
}

func (p *startPager) Cursor() Cursor {
	return Cursor{Start: p.start}
}

func (p *startPager) Advance(count int, hasNext bool) bool {
	if count == 0 || count < p.size {
		return false
	}
	if p.requireSignal && !hasNext {
		return false
	}
	p.start += p.size
	return true
}
