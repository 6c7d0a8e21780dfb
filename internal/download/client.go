package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shaniidev/targetforge/internal/core"
)

// UserAgent is sent with every request.
var UserAgent = "targetforge/dev"

// Client fetches single images to disk with a per-attempt timeout and bounded retries.
type Client struct {
	HTTP         *http.Client
	Retries      int
	VerifyImages bool

	// NewBackOff builds the delay policy between attempts. Nil means exponential.
	NewBackOff func() backoff.BackOff
}

func NewClient(timeout time.Duration, retries int) *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		Retries: retries,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 8 * time.Second
	b.MaxElapsedTime = 0 // bounded by retry count instead
	return b
}

// Download fetches rawURL into outputPath, overwriting any existing file.
// Returns: last statusCode (0 if no response), bytes written, error
func (c *Client) Download(ctx context.Context, rawURL, outputPath string) (int, int64, error) {
	if err := checkURL(rawURL); err != nil {
		return 0, 0, err
	}

	newBackOff := c.NewBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}
	retries := c.Retries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), uint64(retries)), ctx)

	var (
		status int
		size   int64
	)
	op := func() error {
		var (
			err       error
			retryable bool
		)
		status, size, retryable, err = c.attempt(ctx, rawURL, outputPath)
		if err != nil && !retryable {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, policy); err != nil {
		return status, 0, err
	}
	return status, size, nil
}

// attempt performs a single GET. It never leaves a file behind on failure.
func (c *Client) attempt(ctx context.Context, rawURL, outputPath string) (status int, size int64, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: create request: %v", core.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "image/*, */*")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, false, ctx.Err()
		}
		return 0, 0, true, classify(err)
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	if status < 200 || status >= 300 {
		// drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return status, 0, retryableStatus(status), &core.StatusError{StatusCode: status}
	}

	body := bufio.NewReaderSize(resp.Body, 4096)
	if c.VerifyImages {
		header, err := body.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			if ctx.Err() != nil {
				return status, 0, false, ctx.Err()
			}
			return status, 0, true, fmt.Errorf("read body: %w", classify(err))
		}
		if _, ok := DetectImage(header); !ok {
			return status, 0, false, fmt.Errorf("%w (content-type %q)", core.ErrNotAnImage, resp.Header.Get("Content-Type"))
		}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return status, 0, false, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(outFile, body)
	if cerr := outFile.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outputPath) // Clean up partial file
		if ctx.Err() != nil {
			return status, 0, false, ctx.Err()
		}
		return status, 0, true, fmt.Errorf("write file: %w", classify(err))
	}

	return status, written, false, nil
}

// checkURL rejects sources that can never be fetched, such as unfilled placeholders.
func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported URL %q", core.ErrFetchFailed, rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", core.ErrFetchFailed, rawURL)
	}
	return nil
}

func classify(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", core.ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
