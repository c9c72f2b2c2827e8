// Package midjourney drives the Midjourney bot through the Discord web UI:
// log in, open the bot channel, send /imagine and collect the reply images.
package midjourney

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/cache"
	"github.com/NethermindEth/gojourney/pkg/journey/driver"
	"github.com/NethermindEth/gojourney/pkg/journey/grid"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultReplyTimeout = 5 * time.Minute
	DefaultFetchTimeout = 5 * time.Minute

	// replies cached from separate attachments are kept apart from grids
	attachmentsKeySuffix = ".attachments"

	// consecutive failed channel reads tolerated while awaiting a reply
	maxReadErrors = 5
)

type Credentials struct {
	Email      string
	Password   string
	ChannelUrl string
}

func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return art.NewError(art.ErrAuthentication, "credentials", "discord email and password are required")
	}
	if c.ChannelUrl == "" {
		return art.NewError(art.ErrAuthentication, "credentials", "bot channel url is required")
	}
	return nil
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", c.Email),
		slog.String("password", "[redacted]"),
		slog.String("channelUrl", c.ChannelUrl),
	)
}

type Automator struct {
	driver      driver.Driver
	credentials Credentials
	httpClient  *http.Client
	cache       cache.Store

	pollInterval        time.Duration
	replyTimeout        time.Duration
	fetchTimeout        time.Duration
	defaultAspectRatio  string
	separateAttachments bool

	// one request at a time holds the session
	session       *semaphore.Weighted
	authenticated bool
	state         stateHolder
}

var _ art.Generator = (*Automator)(nil)

type AutomatorConfig struct {
	Driver      driver.Driver
	Credentials Credentials
	HttpClient  *http.Client
	Cache       cache.Store

	PollInterval       time.Duration
	ReplyTimeout       time.Duration
	FetchTimeout       time.Duration
	DefaultAspectRatio string
	// SeparateAttachments treats every image attachment of the reply as
	// one artifact instead of splitting a single preview grid.
	SeparateAttachments bool
}

func NewAutomator(config *AutomatorConfig) (*Automator, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Driver == nil {
		return nil, errors.New("driver is nil")
	}

	automator := &Automator{
		driver:      config.Driver,
		credentials: config.Credentials,
		httpClient:  config.HttpClient,
		cache:       config.Cache,

		pollInterval:        config.PollInterval,
		replyTimeout:        config.ReplyTimeout,
		fetchTimeout:        config.FetchTimeout,
		defaultAspectRatio:  config.DefaultAspectRatio,
		separateAttachments: config.SeparateAttachments,

		session: semaphore.NewWeighted(1),
	}

	if automator.httpClient == nil {
		automator.httpClient = http.DefaultClient
	}
	if automator.pollInterval <= 0 {
		automator.pollInterval = DefaultPollInterval
	}
	if automator.replyTimeout <= 0 {
		automator.replyTimeout = DefaultReplyTimeout
	}
	if automator.fetchTimeout <= 0 {
		automator.fetchTimeout = DefaultFetchTimeout
	}
	if automator.defaultAspectRatio == "" {
		automator.defaultAspectRatio = art.DefaultAspectRatio
	}

	return automator, nil
}

func (a *Automator) State() State {
	return a.state.Load()
}

// Generate sends req to the bot and returns up to req.NumImages images of
// its reply. Calls are serialized: a second caller waits until the first
// one finishes or its own context ends.
// SeparateAttachments reports whether replies are read as one image per
// attachment instead of a single grid.
func (a *Automator) SeparateAttachments() bool {
	return a.separateAttachments
}

func (a *Automator) Generate(ctx context.Context, req art.Request) (*art.Result, error) {
	req = req.WithDefaults(a.defaultAspectRatio)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := a.session.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}
	defer a.session.Release(1)

	result, err := a.generate(ctx, req)
	if err != nil {
		a.state.Store(StateFailed)
		return nil, err
	}

	a.state.Store(StateComplete)
	return result, nil
}

func (a *Automator) generate(ctx context.Context, req art.Request) (*art.Result, error) {
	key := req.CacheKey()
	if a.separateAttachments {
		key += attachmentsKeySuffix
	}

	if a.cache != nil {
		entry, ok, err := a.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("failed to read cache", "key", key, "error", err)
		} else if ok {
			slog.Info("using cached reply", "key", key)
			return a.buildResult(req, entry, true)
		}
	}

	if err := a.credentials.Validate(); err != nil {
		return nil, err
	}

	links, err := a.fetchReply(ctx, req)
	if err != nil {
		return nil, err
	}

	entry, err := a.downloadReply(ctx, links)
	if err != nil {
		return nil, err
	}

	result, err := a.buildResult(req, entry, false)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, entry); err != nil {
			slog.Warn("failed to write cache", "key", key, "error", err)
		}
	}

	return result, nil
}

func (a *Automator) fetchReply(ctx context.Context, req art.Request) ([]string, error) {
	a.state.Store(StateAuthenticating)

	if err := a.ensureSession(ctx); err != nil {
		return nil, err
	}

	if err := a.driver.Navigate(ctx, a.credentials.ChannelUrl); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		err = art.Wrap(art.ErrNavigation, "navigate", err)
		// only a redirect to the login page means the session is gone
		if errors.Is(err, art.ErrAuthentication) {
			a.authenticated = false
		}
		return nil, err
	}

	last, err := a.driver.LatestMessage(ctx)
	if err != nil {
		return nil, wrapUnlessDone(ctx, art.ErrNavigation, "read channel", err)
	}

	lastId := ""
	if last != nil {
		lastId = last.ID
	}

	command := req.Command()
	if err := a.driver.SendMessage(ctx, command); err != nil {
		return nil, wrapUnlessDone(ctx, art.ErrNavigation, "send message", err)
	}

	slog.Info("sent prompt", "command", command, "lastMessageId", lastId)

	a.state.Store(StateAwaitingReply)

	return a.awaitReply(ctx, lastId)
}

func (a *Automator) ensureSession(ctx context.Context) error {
	if a.authenticated {
		return nil
	}

	slog.Info("connecting to discord", "credentials", a.credentials)

	if err := a.driver.Authenticate(ctx, a.credentials.Email, a.credentials.Password); err != nil {
		return wrapUnlessDone(ctx, art.ErrAuthentication, "authenticate", err)
	}

	a.authenticated = true
	return nil
}

// awaitReply polls the channel until the bot has posted a status message
// and then a result message after it. Both must be newer than lastId.
func (a *Automator) awaitReply(ctx context.Context, lastId string) ([]string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, a.replyTimeout)
	defer cancel()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	statusId := ""
	readErrors := 0
	for {
		msg, err := a.driver.LatestMessage(waitCtx)
		if err != nil && waitCtx.Err() == nil {
			readErrors++
			slog.Warn("failed to read latest message", "attempt", readErrors, "error", err)
			if readErrors >= maxReadErrors {
				a.authenticated = false
				return nil, art.Wrap(art.ErrNavigation, "await reply", err)
			}
		} else if err == nil {
			readErrors = 0
		}

		if err == nil && msg != nil {
			switch {
			case statusId == "" && msg.ID != lastId:
				status, err := ParseStatus(msg.Text)
				if err != nil {
					return nil, err
				}
				statusId = msg.ID
				slog.Info("process started", "messageId", msg.ID, "user", status.User, "status", status.Status)
			case statusId != "" && msg.ID == statusId:
				if status, err := ParseStatus(msg.Text); errors.Is(err, art.ErrBannedPrompt) {
					return nil, err
				} else if err == nil {
					slog.Debug("generation progress", "messageId", msg.ID, "status", status.Status)
				}
			case statusId != "" && msg.ID != statusId:
				slog.Info("image generation complete", "messageId", msg.ID)
				links, err := a.extractAttachments(waitCtx, msg.ID)
				if err != nil && ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return links, err
			}
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, art.Errorf(art.ErrTimeout, "await reply", "no reply within %s", a.replyTimeout)
		case <-ticker.C:
		}
	}
}

func (a *Automator) extractAttachments(ctx context.Context, messageId string) ([]string, error) {
	links, err := a.driver.Attachments(ctx, messageId)
	if err != nil {
		return nil, art.Wrap(art.ErrNoImageFound, "extract", err)
	}

	images := imageLinks(links)
	if len(images) == 0 {
		return nil, art.Errorf(art.ErrNoImageFound, "extract", "message %s has no image attachment", messageId)
	}

	slog.Info("extracted images", "messageId", messageId, "urls", images)

	return images, nil
}

func (a *Automator) downloadReply(ctx context.Context, links []string) (*cache.Entry, error) {
	if !a.separateAttachments {
		links = links[:1]
	} else if len(links) > art.MaxImages {
		links = links[:art.MaxImages]
	}

	entry := &cache.Entry{}
	for _, link := range links {
		data, err := a.download(ctx, link)
		if err != nil {
			return nil, err
		}
		entry.SourceUrls = append(entry.SourceUrls, link)
		entry.Images = append(entry.Images, data)
	}

	return entry, nil
}

func (a *Automator) buildResult(req art.Request, entry *cache.Entry, cached bool) (*art.Result, error) {
	if len(entry.Images) == 0 || len(entry.Images) != len(entry.SourceUrls) {
		return nil, art.NewError(art.ErrNoImageFound, "build result", "reply holds no images")
	}

	result := &art.Result{
		Prompt:    req.Prompt,
		SourceURL: entry.SourceUrls[0],
		Cached:    cached,
	}

	if a.separateAttachments {
		for i, data := range entry.Images {
			if i >= req.NumImages {
				break
			}
			img, err := grid.DecodeBytes(data)
			if err != nil {
				return nil, art.Wrap(art.ErrNoImageFound, "decode", err)
			}
			result.Artifacts = append(result.Artifacts, art.Artifact{Index: i, SourceURL: entry.SourceUrls[i], Image: img})
		}
		return result, nil
	}

	img, err := grid.DecodeBytes(entry.Images[0])
	if err != nil {
		return nil, art.Wrap(art.ErrNoImageFound, "decode", err)
	}

	tiles, err := grid.Split(img)
	if err != nil {
		return nil, art.Wrap(art.ErrNoImageFound, "split", err)
	}

	for i, tile := range tiles[:min(req.NumImages, len(tiles))] {
		result.Artifacts = append(result.Artifacts, art.Artifact{Index: i, SourceURL: entry.SourceUrls[0], Image: tile})
	}

	return result, nil
}

// Close waits for the request holding the session, then ends the browser.
func (a *Automator) Close() error {
	if err := a.session.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer a.session.Release(1)

	a.authenticated = false
	return a.driver.Close()
}

// wrapUnlessDone tags err with kind, unless the caller gave up, in which
// case the context error is returned as is.
func wrapUnlessDone(ctx context.Context, kind error, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return art.Wrap(kind, op, err)
}
