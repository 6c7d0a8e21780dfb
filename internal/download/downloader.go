package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/shaniidev/targetforge/internal/config"
	"github.com/shaniidev/targetforge/internal/core"
	"github.com/shaniidev/targetforge/internal/ui"
)

// Stager downloads sources one at a time into a staging directory.
type Stager struct {
	Client     *Client
	NamePrefix string
	Extension  string
}

func NewStager(cfg *config.Config) *Stager {
	client := NewClient(cfg.Timeout, cfg.Retries)
	client.VerifyImages = cfg.VerifyImages
	return &Stager{
		Client:     client,
		NamePrefix: cfg.NamePrefix,
		Extension:  cfg.Extension,
	}
}

// Stage fetches every URL in order. Items that fail are skipped and reported in
// failures; the returned error is reserved for conditions that stop the whole
// stage (staging directory unusable, context cancelled). Files staged before
// such an error are still returned so the caller can remove them.
func (s *Stager) Stage(ctx context.Context, urls []string, dir string) ([]core.StagedFile, []core.FetchFailure, error) {
	staged := make([]core.StagedFile, 0, len(urls))
	failures := make([]core.FetchFailure, 0)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return staged, failures, fmt.Errorf("create staging dir: %w", err)
	}
	if len(urls) == 0 {
		return staged, failures, nil
	}

	bar := ui.NewProgressBar(len(urls), "Downloading")
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return staged, failures, err
		}

		outputPath := filepath.Join(dir, StageName(s.NamePrefix, i, s.Extension))
		status, size, err := s.Client.Download(ctx, url, outputPath)
		bar.Increment()

		if err != nil {
			if ctx.Err() != nil {
				return staged, failures, ctx.Err()
			}
			failures = append(failures, core.FetchFailure{
				Index:      i,
				URL:        url,
				StatusCode: status,
				Err:        err,
			})
			ui.Debug("[%d/%d] FAILED: %s - %v", i+1, len(urls), url, err)
			continue
		}

		staged = append(staged, core.StagedFile{
			Index:     i,
			URL:       url,
			LocalPath: outputPath,
			Size:      size,
		})
		ui.Debug("[%d/%d] SUCCESS: %s (%s) - %s", i+1, len(urls), outputPath, humanize.Bytes(uint64(size)), url)
	}

	ui.Printf(ui.Green, "[+] Download Complete: %d/%d successful\n", len(staged), len(urls))
	if len(failures) > 0 {
		ui.Printf(ui.Yellow, "[!] Failed: %d files\n", len(failures))
	}
	return staged, failures, nil
}
