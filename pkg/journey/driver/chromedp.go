package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
)

const (
	DefaultLoginUrl    = "https://discord.com/login"
	DefaultStepTimeout = 30 * time.Second

	loginPollInterval = 500 * time.Millisecond
)

var ErrDriverClosed = errors.New("driver is closed")

type ChromeOptions struct {
	LoginUrl    string
	Headless    bool
	StepTimeout time.Duration
	ExecPath    string
}

// ChromeDriver drives a single Chrome tab through the DevTools protocol.
// The browser starts on first use and lives until Close.
type ChromeDriver struct {
	opts ChromeOptions

	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closed        bool

	mu sync.Mutex
}

var _ Driver = (*ChromeDriver)(nil)

func NewChromeDriver(opts ChromeOptions) *ChromeDriver {
	if opts.LoginUrl == "" {
		opts.LoginUrl = DefaultLoginUrl
	}
	if opts.StepTimeout == 0 {
		opts.StepTimeout = DefaultStepTimeout
	}

	return &ChromeDriver{opts: opts}
}

func (d *ChromeDriver) browser() (context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDriverClosed
	}
	if d.browserCtx != nil {
		return d.browserCtx, nil
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.opts.Headless),
		chromedp.WindowSize(1280, 960),
	)
	if d.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(d.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	slog.Info("browser started", "headless", d.opts.Headless)

	d.browserCtx = browserCtx
	d.cancelBrowser = cancelBrowser
	d.cancelAlloc = cancelAlloc

	return browserCtx, nil
}

func (d *ChromeDriver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	browserCtx, err := d.browser()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Authenticate opens the login page and submits the credentials. A browser
// that still holds a session is moved off the login page by Discord and
// counts as logged in.
func (d *ChromeDriver) Authenticate(ctx context.Context, email string, password string) error {
	if err := d.run(ctx, d.opts.StepTimeout, chromedp.Navigate(d.opts.LoginUrl)); err != nil {
		return wrapUnlessDone(ctx, art.ErrAuthentication, "authenticate", err)
	}

	step, err := d.awaitLogin(ctx, false)
	if err != nil {
		return err
	}
	if step == loginDone {
		slog.Info("browser session is already logged in")
		return nil
	}

	err = d.run(ctx, d.opts.StepTimeout,
		chromedp.SendKeys(loginEmailSelector, email, chromedp.ByQuery),
		chromedp.SendKeys(loginPasswordSelector, password, chromedp.ByQuery),
		chromedp.SendKeys(loginPasswordSelector, kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return wrapUnlessDone(ctx, art.ErrAuthentication, "authenticate", err)
	}

	if _, err := d.awaitLogin(ctx, true); err != nil {
		return err
	}

	return nil
}

// awaitLogin polls the login page until the form can be filled or the
// page leaves /login. With submitted set only leaving counts.
func (d *ChromeDriver) awaitLogin(ctx context.Context, submitted bool) (loginStep, error) {
	deadline := time.Now().Add(d.opts.StepTimeout)
	for {
		var page loginPage
		if err := d.run(ctx, d.opts.StepTimeout, chromedp.Evaluate(loginPageScript(), &page)); err != nil {
			return loginWait, wrapUnlessDone(ctx, art.ErrAuthentication, "authenticate", err)
		}

		step := nextLoginStep(page)
		if step == loginDone {
			slog.Info("logged in", "location", page.Location)
			return step, nil
		}
		if step == loginFill && !submitted {
			return step, nil
		}

		if !time.Now().Before(deadline) {
			if submitted {
				return loginWait, art.NewError(art.ErrAuthentication, "authenticate", "still on login page after submitting credentials")
			}
			return loginWait, art.NewError(art.ErrAuthentication, "authenticate", "login form did not appear")
		}

		select {
		case <-ctx.Done():
			return loginWait, ctx.Err()
		case <-time.After(loginPollInterval):
		}
	}
}

func (d *ChromeDriver) Navigate(ctx context.Context, channelUrl string) error {
	err := d.run(ctx, d.opts.StepTimeout,
		chromedp.Navigate(channelUrl),
		chromedp.WaitVisible(messageBoxSelector, chromedp.ByQuery),
	)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var location string
	if locErr := d.run(ctx, d.opts.StepTimeout, chromedp.Location(&location)); locErr == nil && strings.Contains(location, "/login") {
		return art.NewError(art.ErrAuthentication, "navigate", "session was redirected to the login page")
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return art.Errorf(art.ErrNavigation, "navigate", "message box did not appear at %s", channelUrl)
	}

	return art.Wrap(art.ErrNavigation, "navigate", err)
}

func (d *ChromeDriver) SendMessage(ctx context.Context, text string) error {
	return d.run(ctx, d.opts.StepTimeout,
		chromedp.Click(messageBoxSelector, chromedp.ByQuery),
		chromedp.SendKeys(messageBoxSelector, text, chromedp.ByQuery),
		chromedp.SendKeys(messageBoxSelector, kb.Enter, chromedp.ByQuery),
	)
}

func (d *ChromeDriver) LatestMessage(ctx context.Context) (*Message, error) {
	var msg Message
	if err := d.run(ctx, d.opts.StepTimeout, chromedp.Evaluate(latestMessageScript(), &msg)); err != nil {
		return nil, fmt.Errorf("failed to read latest message: %w", err)
	}

	if msg.ID == "" {
		return nil, nil
	}

	return &msg, nil
}

func (d *ChromeDriver) Attachments(ctx context.Context, messageId string) ([]string, error) {
	var msg Message
	if err := d.run(ctx, d.opts.StepTimeout, chromedp.Evaluate(messageByIdScript(messageId), &msg)); err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", messageId, err)
	}

	if msg.ID == "" {
		return nil, fmt.Errorf("message %s not found", messageId)
	}

	return msg.Links, nil
}

func (d *ChromeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.browserCtx == nil {
		return nil
	}

	d.cancelBrowser()
	d.cancelAlloc()
	d.browserCtx = nil

	slog.Info("browser closed")

	return nil
}

func wrapUnlessDone(ctx context.Context, kind error, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return art.Wrap(kind, op, err)
}
