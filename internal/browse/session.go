// Package browse renders the storefront listing in a terminal. Each command
// changes the listing selection and fires a fetch through a catalog.View, so
// a slow fetch never overwrites the result of a newer command.
package browse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
)

type lister interface {
	catalog.Lister
	Query(p catalog.Params) catalog.Query
}

type categoryLister interface {
	List(ctx context.Context) []domain.Category
}

type Session struct {
	products   lister
	categories categoryLister
	view       *catalog.View
	out        io.Writer

	mu     sync.Mutex
	params catalog.Params
	wg     sync.WaitGroup
}

func NewSession(products lister, categories categoryLister, out io.Writer) *Session {
	return &Session{
		products:   products,
		categories: categories,
		view:       catalog.NewView(products),
		out:        out,
		params:     catalog.Params{Page: 1},
	}
}

const help = `commands:
  categories          list categories
  category <slug>     filter by category ("all" clears)
  search [term]       filter by name; no term clears
  sort <key>          name | price_low | price_high | newest
  page <n> | next | prev
  quit`

// Run reads commands until quit or EOF and prints every applied page.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	updates := s.view.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range updates {
			s.render(snap)
		}
	}()

	fmt.Fprintln(s.out, help)
	s.fetch(ctx)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		quit, err := s.Handle(ctx, sc.Text())
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if quit {
			break
		}
	}

	s.wg.Wait()
	s.view.Close()
	<-done
	return sc.Err()
}

// Handle applies one command line. Filter changes are fetched asynchronously.
func (s *Session) Handle(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	s.mu.Lock()
	switch cmd {
	case "":
		s.mu.Unlock()
		return false, nil
	case "quit", "exit":
		s.mu.Unlock()
		return true, nil
	case "help":
		s.mu.Unlock()
		fmt.Fprintln(s.out, help)
		return false, nil
	case "categories":
		s.mu.Unlock()
		for _, c := range s.categories.List(ctx) {
			fmt.Fprintf(s.out, "  %-16s %s\n", c.Slug, c.Name)
		}
		return false, nil
	case "category":
		s.params.Category = arg
		s.params.Page = 1
	case "sort":
		s.params.Sort = arg
		s.params.Page = 1
	case "search":
		s.params.Search = arg
	case "page":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil || n < 1 {
			s.mu.Unlock()
			return false, fmt.Errorf("page must be a positive number")
		}
		s.params.Page = n
	case "next":
		s.params.Page++
	case "prev":
		if s.params.Page > 1 {
			s.params.Page--
		}
	default:
		s.mu.Unlock()
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	s.mu.Unlock()

	s.fetch(ctx)
	return false, nil
}

// Params returns the current listing selection.
func (s *Session) Params() catalog.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Current returns the snapshot on screen.
func (s *Session) Current() catalog.Snapshot {
	return s.view.Current()
}

// fetch snapshots the selection and reserves its generation before going
// async; only the fetch itself runs in the background.
func (s *Session) fetch(ctx context.Context) {
	s.mu.Lock()
	q := s.products.Query(s.params)
	gen := s.view.Begin()
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.view.Finish(ctx, gen, q)
	}()
}

func (s *Session) render(snap catalog.Snapshot) {
	q, page := snap.Query, snap.Page
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%d] category=%s search=%q sort=%s: %d products\n",
		snap.Generation, q.CategorySlug, q.SearchTerm, q.Sort, page.TotalCount)
	if len(page.Products) == 0 {
		b.WriteString("  no products found\n")
	}
	for _, p := range page.Products {
		price := "$" + p.EffectivePrice().StringFixed(2)
		if p.OnSale() {
			price += " (was $" + p.Price.StringFixed(2) + ")"
		}
		fmt.Fprintf(&b, "  %-28s %s\n", p.Name, price)
	}
	b.WriteString(paginationLine(page.Pagination()))
	fmt.Fprint(s.out, b.String())
}

func paginationLine(v catalog.PaginationView) string {
	if v.TotalPages <= 1 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" ")
	if v.HasPrevious {
		b.WriteString(" < prev")
	}
	for _, n := range v.Links {
		if n == v.CurrentPage {
			fmt.Fprintf(&b, " [%d]", n)
		} else {
			fmt.Fprintf(&b, " %d", n)
		}
	}
	if v.HasNext {
		b.WriteString(" next >")
	}
	fmt.Fprintf(&b, "  (page %d of %d)\n", v.CurrentPage, v.TotalPages)
	return b.String()
}
