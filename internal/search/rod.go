package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/miajac/theiceweshare/internal/config"
	"github.com/miajac/theiceweshare/internal/extract"
	"github.com/miajac/theiceweshare/internal/resilience"
)

var _ Session = (*RodSession)(nil)

// locator finds one element by CSS selector or, when xpath is set, by XPath.
type locator struct {
	css   string
	xpath string
}

func (l locator) String() string {
	if l.xpath != "" {
		return l.xpath
	}
	return l.css
}

// pageDriver is the part of a browser page a RodSession uses. Each call waits
// for its element until ctx is done.
type pageDriver interface {
	Click(ctx context.Context, loc locator) error
	Clear(ctx context.Context, loc locator) error
	Type(ctx context.Context, loc locator, text string) error
	Wait(ctx context.Context, loc locator) error
	Rows(ctx context.Context, loc locator) ([]extract.Row, error)
	Close() error
}

// RodSession drives the search page in Chrome through go-rod.
type RodSession struct {
	cfg config.SearchConfig

	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      pageDriver
	owned     bool // browser was launched by us, not attached to
	submitted int
}

// NewRodSession creates a session. Nothing is launched until Open.
func NewRodSession(cfg config.SearchConfig) *RodSession {
	return &RodSession{cfg: cfg}
}

// Open attaches to search.debugger_url when set, otherwise launches Chrome,
// then navigates to the search page.
func (s *RodSession) Open(ctx context.Context) error {
	controlURL := s.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(s.cfg.Headless)
		if s.cfg.BrowserBin != "" {
			l = l.Bin(s.cfg.BrowserBin)
		}
		u, err := l.Launch()
		if err != nil {
			return eris.Wrap(err, "search: launch chrome")
		}
		s.launcher = l
		s.owned = true
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		s.cleanupLauncher()
		return eris.Wrap(err, "search: connect to chrome")
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return eris.Wrap(err, "search: create page")
	}
	s.page = rodPage{page: page}

	retry := resilience.DefaultRetryConfig()
	if s.cfg.OpenAttempts > 0 {
		retry.MaxAttempts = s.cfg.OpenAttempts
	}
	retry.OnRetry = resilience.RetryLogger("search: navigate")

	err = resilience.Do(ctx, retry, func(ctx context.Context) error {
		nctx, cancel := withTimeout(ctx, s.cfg.NavigationTimeout())
		defer cancel()
		p := page.Context(nctx)
		if err := p.Navigate(s.cfg.URL); err != nil {
			return navigationErr(err)
		}
		return p.WaitLoad()
	})
	if err != nil {
		_ = s.Close()
		return eris.Wrapf(err, "search: open %s", s.cfg.URL)
	}

	zap.L().Info("search: page ready", zap.String("url", s.cfg.URL))
	return nil
}

// navigationErr marks a page-reported navigation failure as retryable. Chrome
// reports aborted or reset loads this way while the site is busy.
func navigationErr(err error) error {
	var navErr *rod.NavigationError
	if errors.As(err, &navErr) {
		return resilience.NewTransientError(err)
	}
	return err
}

// Submit runs one query cycle. Every submission after the first re-opens the
// search parameter panel, which the page collapses after each query.
func (s *RodSession) Submit(ctx context.Context, batch []string) ([]extract.Row, error) {
	if s.page == nil {
		return nil, eris.New("search: session not open")
	}

	first := s.submitted == 0
	s.submitted++

	if !first {
		if err := s.reopenParameters(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.fillQuery(ctx, QueryPayload(batch)); err != nil {
		return nil, err
	}
	if err := s.clickSubmit(ctx); err != nil {
		return nil, err
	}
	return s.waitForRows(ctx)
}

func (s *RodSession) reopenParameters(ctx context.Context) error {
	cctx, cancel := withTimeout(ctx, s.cfg.ControlTimeout())
	defer cancel()

	if err := s.page.Click(cctx, locator{css: s.cfg.ToggleSelector}); err != nil {
		return eris.Wrap(err, "search: open parameters")
	}
	return resilience.Sleep(ctx, s.cfg.ReopenDelay())
}

func (s *RodSession) fillQuery(ctx context.Context, payload string) error {
	cctx, cancel := withTimeout(ctx, s.cfg.ControlTimeout())
	defer cancel()

	field := locator{css: s.cfg.QueryFieldSelector}
	if err := s.page.Clear(cctx, field); err != nil {
		return eris.Wrap(err, "search: clear query field")
	}
	if err := s.page.Type(cctx, field, payload); err != nil {
		return eris.Wrap(err, "search: type query")
	}
	return nil
}

func (s *RodSession) clickSubmit(ctx context.Context) error {
	cctx, cancel := withTimeout(ctx, s.cfg.ControlTimeout())
	defer cancel()

	if err := s.page.Click(cctx, locator{xpath: s.cfg.SubmitXPath}); err != nil {
		return eris.Wrap(err, "search: submit query")
	}
	return nil
}

func (s *RodSession) waitForRows(ctx context.Context) ([]extract.Row, error) {
	rows := locator{xpath: s.cfg.RowXPath}

	rctx, cancel := withTimeout(ctx, s.cfg.ResultsTimeout())
	err := s.page.Wait(rctx, rows)
	cancel()
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, eris.Wrapf(ErrNoResults, "waited %s", s.cfg.ResultsTimeout())
		}
		return nil, eris.Wrap(err, "search: wait for results")
	}

	if err := resilience.Sleep(ctx, s.cfg.SettleDelay()); err != nil {
		return nil, err
	}

	out, err := s.page.Rows(ctx, rows)
	if err != nil {
		return nil, eris.Wrap(err, "search: list result rows")
	}
	return out, nil
}

// Close closes the page, and the browser too when this session launched it.
func (s *RodSession) Close() error {
	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, eris.Wrap(err, "search: close page"))
		}
		s.page = nil
	}
	if s.browser != nil && s.owned {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, eris.Wrap(err, "search: close browser"))
		}
	}
	s.browser = nil
	s.cleanupLauncher()
	return errors.Join(errs...)
}

func (s *RodSession) cleanupLauncher() {
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

// rodPage implements pageDriver on a live rod page.
type rodPage struct {
	page *rod.Page
}

func (p rodPage) find(ctx context.Context, loc locator) (*rod.Element, error) {
	pg := p.page.Context(ctx)
	var (
		el  *rod.Element
		err error
	)
	if loc.xpath != "" {
		el, err = pg.ElementX(loc.xpath)
	} else {
		el, err = pg.Element(loc.css)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "find %s", loc)
	}
	return el, nil
}

func (p rodPage) Click(ctx context.Context, loc locator) error {
	el, err := p.find(ctx, loc)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p rodPage) Clear(ctx context.Context, loc locator) error {
	el, err := p.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input("")
}

func (p rodPage) Type(ctx context.Context, loc locator, text string) error {
	el, err := p.find(ctx, loc)
	if err != nil {
		return err
	}
	return el.Input(text)
}

func (p rodPage) Wait(ctx context.Context, loc locator) error {
	_, err := p.find(ctx, loc)
	return err
}

func (p rodPage) Rows(ctx context.Context, loc locator) ([]extract.Row, error) {
	els, err := p.page.Context(ctx).ElementsX(loc.xpath)
	if err != nil {
		return nil, err
	}
	rows := make([]extract.Row, len(els))
	for i, el := range els {
		rows[i] = rodRow{el: el}
	}
	return rows, nil
}

func (p rodPage) Close() error {
	return p.page.Close()
}

// rodRow reads cell texts lazily so a row that goes stale fails on its own.
type rodRow struct {
	el *rod.Element
}

func (r rodRow) Cells() ([]string, error) {
	tds, err := r.el.ElementsX("./td")
	if err != nil {
		return nil, eris.Wrap(err, "search: list cells")
	}
	cells := make([]string, len(tds))
	for i, td := range tds {
		text, err := td.Text()
		if err != nil {
			return nil, eris.Wrapf(err, "search: read cell %d", i+1)
		}
		cells[i] = text
	}
	return cells, nil
}

// QueryPayload is the query field text for a batch: one identifier per line.
func QueryPayload(batch []string) string {
	return strings.Join(batch, "\n")
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
