package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/firefox"
)

// keyEnter submits the search form.
const keyEnter = selenium.EnterKey

// ErrNoSuchElement is returned when a locator matches nothing.
var ErrNoSuchElement = errors.New("no such element")

// Driver owns one Firefox session driven through geckodriver (or any
// compatible remote WebDriver server).
//
// Example:
//
//	drv, err := StartDriver(ctx, DriverConfig{Path: "/usr/bin/geckodriver"})
//	defer drv.Close()
//	err = drv.Navigate(ctx, "https://www.google.com/")
type Driver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	poll    time.Duration
}

// DriverConfig describes how to reach a WebDriver endpoint.
type DriverConfig struct {
	// Path is a geckodriver executable, or an http(s) URL of a running
	// WebDriver server.
	Path string

	// Show runs the browser with a visible window.
	Show bool

	// Poll is the interval between element checks while waiting.
	Poll time.Duration
}

// Element is a handle to a DOM element in the current session.
type Element struct {
	// ID names the element for logging.
	ID string

	we selenium.WebElement
}

// StartDriver launches (or connects to) a WebDriver server and opens a
// Firefox session. On failure nothing is left running.
func StartDriver(ctx context.Context, cfg DriverConfig) (*Driver, error) {
	if cfg.Path == "" {
		return nil, errors.New("webdriver: no driver configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Poll <= 0 {
		cfg.Poll = 250 * time.Millisecond
	}

	d := &Driver{poll: cfg.Poll}

	urlPrefix := strings.TrimRight(cfg.Path, "/")
	if !strings.HasPrefix(cfg.Path, "http://") && !strings.HasPrefix(cfg.Path, "https://") {
		port, err := freePort()
		if err != nil {
			return nil, fmt.Errorf("webdriver: pick port: %w", err)
		}

		var out io.Writer = io.Discard
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			out = log.Logger
		}

		log.Debug().Str("driver", cfg.Path).Int("port", port).Msg("Starting geckodriver")
		d.service, err = selenium.NewGeckoDriverService(cfg.Path, port, selenium.Output(out))
		if err != nil {
			return nil, fmt.Errorf("webdriver: start %s: %w", cfg.Path, err)
		}
		urlPrefix = fmt.Sprintf("http://localhost:%d", port)
	}

	caps := selenium.Capabilities{"browserName": "firefox"}
	var args []string
	if !cfg.Show {
		args = append(args, "-headless")
	}
	caps.AddFirefox(firefox.Capabilities{Args: args})

	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		d.stopService()
		return nil, fmt.Errorf("webdriver: new session: %w", err)
	}
	d.wd = wd

	log.Debug().Str("url", urlPrefix).Bool("headless", !cfg.Show).Msg("WebDriver session started")
	return d, nil
}

// Navigate loads url in the current window.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	return d.wd.Get(url)
}

// Title returns the current page title.
func (d *Driver) Title(ctx context.Context) (string, error) {
	return d.wd.Title()
}

// FindElement returns the first element matching the CSS selector.
func (d *Driver) FindElement(ctx context.Context, css string) (Element, error) {
	we, err := d.wd.FindElement(selenium.ByCSSSelector, css)
	if err != nil {
		return Element{}, elementError(css, err)
	}
	return Element{ID: css, we: we}, nil
}

// WaitForElements polls until at least one element matches the CSS
// selector, the timeout elapses or ctx is done.
func (d *Driver) WaitForElements(ctx context.Context, css string, timeout time.Duration) ([]Element, error) {
	var found []selenium.WebElement
	err := d.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		els, err := wd.FindElements(selenium.ByCSSSelector, css)
		if err != nil || len(els) == 0 {
			return false, nil
		}
		found = els
		return true, nil
	}, timeout, d.poll)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", css, err)
	}

	elements := make([]Element, len(found))
	for i, we := range found {
		elements[i] = Element{ID: fmt.Sprintf("%s[%d]", css, i), we: we}
	}
	return elements, nil
}

// FindChild returns the first descendant of parent matching css.
func (d *Driver) FindChild(ctx context.Context, parent Element, css string) (Element, error) {
	we, err := parent.we.FindElement(selenium.ByCSSSelector, css)
	if err != nil {
		return Element{}, elementError(css, err)
	}
	return Element{ID: parent.ID + " " + css, we: we}, nil
}

// Clear empties an input element.
func (d *Driver) Clear(ctx context.Context, el Element) error {
	return el.we.Clear()
}

// SendKeys types text into an element.
func (d *Driver) SendKeys(ctx context.Context, el Element, text string) error {
	return el.we.SendKeys(text)
}

// Text returns the rendered text of an element.
func (d *Driver) Text(ctx context.Context, el Element) (string, error) {
	return el.we.Text()
}

// Close ends the browser session and stops a spawned driver.
func (d *Driver) Close() error {
	var err error
	if d.wd != nil {
		err = d.wd.Quit()
	}
	d.stopService()
	return err
}

func (d *Driver) stopService() {
	if d.service == nil {
		return
	}
	if err := d.service.Stop(); err != nil {
		log.Debug().Err(err).Msg("Can't stop geckodriver")
	}
	d.service = nil
}

// elementError maps the WebDriver "no such element" error to
// ErrNoSuchElement.
func elementError(css string, err error) error {
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) && wdErr.Err == "no such element" {
		return fmt.Errorf("%s: %w", css, ErrNoSuchElement)
	}
	return fmt.Errorf("%s: %w", css, err)
}

// freePort asks the kernel for an unused TCP port for geckodriver.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
